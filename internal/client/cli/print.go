package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/bitnet/internal/client/models"
	smodels "github.com/dmitrijs2005/bitnet/internal/server/models"
)

func industryList() string {
	return strings.Join(smodels.Industries, ", ")
}

// field prints "label: value", skipping empty values.
func field(w io.Writer, label, value string) {
	if value != "" {
		fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
	}
}

func printUser(w io.Writer, u *smodels.User) {
	fmt.Fprintf(w, "%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
	field(w, "Company", u.Company)
	field(w, "Job title", u.JobTitle)
	field(w, "Bio", u.Bio)
	field(w, "LinkedIn", u.LinkedInURL)
}

func printCompany(w io.Writer, c *smodels.Company) {
	fmt.Fprintf(w, "[%d] %s\n", c.ID, c.Name)
	field(w, "Industry", c.Industry)
	field(w, "Description", c.Description)
	field(w, "Email", c.ContactEmail)
	field(w, "Phone", c.ContactPhone)
	field(w, "Website", c.Website)
	field(w, "Address", c.Address.Format())
	field(w, "LinkedIn", c.SocialMedia.LinkedIn)
	for _, p := range c.ContactPersons {
		field(w, "Contact", strings.TrimSpace(p.Name+" "+p.Title+" "+p.Email))
	}
}

func printContact(w io.Writer, c models.Contact) {
	fmt.Fprintf(w, "[%d] %s (%s, %s)\n", c.CompanyID, c.Name, c.Category, c.ConnectionStatus)
	field(w, "Industry", c.Industry)
	field(w, "Description", c.Description)
	field(w, "Email", c.ContactEmail)
	field(w, "Phone", c.ContactPhone)
	field(w, "Website", c.Website)
	field(w, "Address", c.Address)
	field(w, "Saved", c.SavedAt.Local().Format("2006-01-02 15:04"))

	if len(c.Notes) > 0 {
		fmt.Fprintln(w, "  Notes:")
		for _, n := range c.Notes {
			fmt.Fprintf(w, "    %s %s: %s\n", n.Date.Local().Format("2006-01-02"), n.Author, n.Text)
		}
	}
	if len(c.Meetings) > 0 {
		fmt.Fprintln(w, "  Meetings:")
		for _, m := range c.Meetings {
			fmt.Fprintf(w, "    %s %s %s @ %s [%s]\n", m.Date, m.Time, m.Title, m.Location, m.Status)
		}
	}
	if len(c.Reminders) > 0 {
		fmt.Fprintln(w, "  Reminders:")
		for _, r := range c.Reminders {
			fmt.Fprintf(w, "    %s %s (%s) [%s]\n", r.Date, r.Title, r.Priority, r.Status)
		}
	}
}
