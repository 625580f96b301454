package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

// Company shows the user's company profile. "company create" and
// "company edit" prompt for the fields; when editing, empty answers keep the
// current value.
func (a *App) Company(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "show" {
		c, err := a.companies.Mine(ctx)
		if errors.Is(err, common.ErrNotFound) {
			fmt.Fprintln(a.out, "You have no company profile yet, use 'company create'")
			return nil
		}
		if err != nil {
			return err
		}
		printCompany(a.out, c)
		return nil
	}

	switch args[0] {
	case "create":
		in, err := a.companyInput(models.CompanyInput{})
		if err != nil {
			return err
		}
		c, err := a.companies.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Company profile created successfully")
		printCompany(a.out, c)
		return nil

	case "edit":
		cur, err := a.companies.Mine(ctx)
		if err != nil {
			return err
		}
		in, err := a.companyInput(models.CompanyInput{
			Name:           cur.Name,
			Industry:       cur.Industry,
			Description:    cur.Description,
			ContactEmail:   cur.ContactEmail,
			ContactPhone:   cur.ContactPhone,
			Website:        cur.Website,
			Address:        cur.Address,
			Logo:           cur.Logo,
			SocialMedia:    cur.SocialMedia,
			ContactPersons: cur.ContactPersons,
		})
		if err != nil {
			return err
		}
		c, err := a.companies.UpdateMine(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Company profile updated successfully")
		printCompany(a.out, c)
		return nil
	}
	return usageError("company [show|create|edit]")
}

// companyInput prompts for each field, showing the current value as default.
func (a *App) companyInput(in models.CompanyInput) (models.CompanyInput, error) {
	fields := []struct {
		label string
		dst   *string
	}{
		{"Company name", &in.Name},
		{"Industry (" + industryList() + ")", &in.Industry},
		{"Description", &in.Description},
		{"Contact email", &in.ContactEmail},
		{"Contact phone", &in.ContactPhone},
		{"Website", &in.Website},
		{"Street", &in.Address.Street},
		{"City", &in.Address.City},
		{"Zip", &in.Address.Zip},
		{"Country", &in.Address.Country},
		{"LinkedIn", &in.SocialMedia.LinkedIn},
	}
	for _, f := range fields {
		label := f.label
		if *f.dst != "" {
			label += " [" + *f.dst + "]"
		}
		v, err := getSimpleText(a.reader, label, a.out)
		if err != nil {
			return in, err
		}
		if v != "" {
			*f.dst = v
		}
	}
	return in, nil
}

// QR saves the user's company QR code as a PNG in the export directory.
func (a *App) QR(ctx context.Context) error {
	saved, err := a.companies.SaveQR(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "QR code for %s saved to %s\n", saved.Data.Name, saved.Path)
	return nil
}

// Directory lists all published companies, or shows one with "directory <id>".
func (a *App) Directory(ctx context.Context, args []string) error {
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return usageError("directory [companyId]")
		}
		c, err := a.companies.Get(ctx, id)
		if err != nil {
			return err
		}
		printCompany(a.out, c)
		return nil
	}

	list, err := a.companies.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No companies published yet")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(a.out, "%5d  %-30s %s\n", c.ID, c.Name, c.Industry)
	}
	return nil
}
