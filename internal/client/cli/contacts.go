package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bitnet/internal/client/ledger"
	"github.com/dmitrijs2005/bitnet/internal/client/models"
	"github.com/dmitrijs2005/bitnet/internal/client/services"
)

func parseCompanyID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, usageError(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError(usage)
	}
	return id, nil
}

// parseFilter reads category=<c> and industry=<i> tokens; the remaining words
// form the search term.
func parseFilter(args []string) models.Filter {
	var f models.Filter
	var words []string
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "category="):
			f.Category = strings.TrimPrefix(a, "category=")
		case strings.HasPrefix(a, "industry="):
			f.Industry = strings.TrimPrefix(a, "industry=")
		default:
			words = append(words, a)
		}
	}
	f.SearchTerm = strings.Join(words, " ")
	return f
}

// Scan reads a QR code from an image file or from pasted text and saves the
// company to the ledger.
func (a *App) Scan(ctx context.Context, args []string) error {
	const usage = "scan file <path> [category] | scan text [category]"
	if len(args) == 0 {
		return usageError(usage)
	}

	var (
		c   models.Contact
		err error
	)
	switch args[0] {
	case "file":
		if len(args) < 2 {
			return usageError(usage)
		}
		c, err = a.contacts.ScanFile(ctx, args[1], categoryArg(args, 2))
	case "text":
		var text string
		text, err = getSimpleText(a.reader, "Paste the scanned QR text", a.out)
		if err != nil {
			return err
		}
		c, err = a.contacts.ScanText(ctx, text, categoryArg(args, 1))
	default:
		return usageError(usage)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s (company %d) as %s\n", c.Name, c.CompanyID, c.Category)
	return nil
}

func categoryArg(args []string, i int) models.Category {
	if len(args) > i {
		return models.Category(args[i])
	}
	return ""
}

func (a *App) Contacts(ctx context.Context, args []string) error {
	list, err := a.ledger.List(ctx, parseFilter(args))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No contacts found")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(a.out, "%5d  %-30s %-14s %-10s %s\n", c.CompanyID, c.Name, c.Industry, c.Category, c.ConnectionStatus)
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseCompanyID(args, "show <companyId>")
	if err != nil {
		return err
	}
	c, err := a.ledger.Get(ctx, id)
	if err != nil {
		return err
	}
	printContact(a.out, c)
	return nil
}

func (a *App) Note(ctx context.Context, args []string) error {
	id, err := parseCompanyID(args, "note <companyId>")
	if err != nil {
		return err
	}
	text, err := GetMultiline(a.reader, "Enter note text", a.out)
	if err != nil {
		return err
	}
	n, err := a.ledger.AppendNote(ctx, id, text, a.author())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Note %d added\n", n.ID)
	return nil
}

// author signs notes with the logged-in user's name.
func (a *App) author() string {
	if u := a.session.User(); u != nil {
		if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
			return name
		}
	}
	return ledger.DefaultAuthor
}

func (a *App) Meet(ctx context.Context, args []string) error {
	id, err := parseCompanyID(args, "meet <companyId>")
	if err != nil {
		return err
	}
	v, err := a.prompt("Meeting title", "Date (YYYY-MM-DD)", "Time (HH:MM)", "Location")
	if err != nil {
		return err
	}
	m, err := a.ledger.ScheduleMeeting(ctx, id, models.Meeting{Title: v[0], Date: v[1], Time: v[2], Location: v[3]})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Meeting %d scheduled\n", m.ID)
	return nil
}

func (a *App) Remind(ctx context.Context, args []string) error {
	id, err := parseCompanyID(args, "remind <companyId>")
	if err != nil {
		return err
	}
	v, err := a.prompt("Reminder title", "Date (YYYY-MM-DD)", "Priority (low|medium|high)")
	if err != nil {
		return err
	}
	r, err := a.ledger.AddReminder(ctx, id, models.Reminder{Title: v[0], Date: v[1], Priority: models.Priority(v[2])})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Reminder %d added (%s priority)\n", r.ID, r.Priority)
	return nil
}

func (a *App) Status(ctx context.Context, args []string) error {
	const usage = "status <companyId> <initial|contacted|active|follow-up|closed>"
	id, err := parseCompanyID(args, usage)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usageError(usage)
	}
	c, err := a.ledger.SetConnectionStatus(ctx, id, models.ConnectionStatus(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now %s\n", c.Name, c.ConnectionStatus)
	return nil
}

func (a *App) Category(ctx context.Context, args []string) error {
	const usage = "category <companyId> <prospect|partner|client|vendor|investor|other>"
	id, err := parseCompanyID(args, usage)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usageError(usage)
	}
	c, err := a.ledger.SetCategory(ctx, id, models.Category(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now in %s\n", c.Name, c.Category)
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	id, err := parseCompanyID(args, "remove <companyId>")
	if err != nil {
		return err
	}
	if err := a.ledger.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Contact removed")
	return nil
}

func (a *App) Export(ctx context.Context, args []string) error {
	const usage = "export <csv|vcard|pdf> [category=<c>] [industry=<i>] [search words...]"
	if len(args) == 0 {
		return usageError(usage)
	}
	format := services.ExportFormat(strings.ToLower(args[0]))
	switch format {
	case services.FormatCSV, services.FormatVCard, services.FormatPDF:
	default:
		return usageError(usage)
	}
	path, err := a.contacts.Export(ctx, format, parseFilter(args[1:]))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported to %s\n", path)
	return nil
}
