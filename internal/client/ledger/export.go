package ledger

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/phpdave11/gofpdf"

	"github.com/dmitrijs2005/bitnet/internal/client/models"
)

// CSVHeader is the first line of ExportCSV.
const CSVHeader = "Name,Category,Industry,Email,Phone,Website,Address,Description,Saved Date"

const savedDateLayout = "2006-01-02"

func csvField(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportCSV renders one quoted line per contact after the header. Newlines
// inside fields become spaces, so the output has len(contacts)+1 lines.
func ExportCSV(contacts []models.Contact) string {
	lines := make([]string, 0, len(contacts)+1)
	lines = append(lines, CSVHeader)
	for _, c := range contacts {
		fields := []string{
			c.Name,
			string(c.Category),
			c.Industry,
			c.ContactEmail,
			c.ContactPhone,
			c.Website,
			c.Address,
			c.Description,
			c.SavedAt.Format(savedDateLayout),
		}
		for i := range fields {
			fields[i] = csvField(fields[i])
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

// ExportVCard renders one vCard 3.0 record per contact.
func ExportVCard(contacts []models.Contact) (string, error) {
	var buf bytes.Buffer
	enc := vcard.NewEncoder(&buf)

	for _, c := range contacts {
		card := vcard.Card{}
		card.SetValue(vcard.FieldVersion, "3.0")
		card.SetValue(vcard.FieldFormattedName, c.Name)
		// Companies have no personal name; N stays an empty structured value.
		card.AddName(&vcard.Name{})
		card.SetValue(vcard.FieldOrganization, vcardComponent(c.Name))
		if c.ContactEmail != "" {
			card.SetValue(vcard.FieldEmail, c.ContactEmail)
		}
		if c.ContactPhone != "" {
			card.SetValue(vcard.FieldTelephone, c.ContactPhone)
		}
		if c.Website != "" {
			card.SetValue(vcard.FieldURL, c.Website)
		}
		if c.Address != "" {
			card.AddAddress(&vcard.Address{StreetAddress: vcardComponent(c.Address)})
		}
		if c.Description != "" {
			card.SetValue(vcard.FieldNote, c.Description)
		}
		card.SetValue(vcard.FieldCategories, string(c.Category))

		if err := enc.Encode(card); err != nil {
			return "", fmt.Errorf("encode vcard for %d: %w", c.CompanyID, err)
		}
	}
	return buf.String(), nil
}

// vcardComponent keeps s a single component of a structured property.
// go-vcard escapes commas but writes semicolons raw, and readers would split
// on them.
func vcardComponent(s string) string {
	return strings.ReplaceAll(s, ";", ",")
}

// pdfColumns lists the summary table columns and their widths in mm.
var pdfColumns = []struct {
	title string
	width float64
	value func(models.Contact) string
}{
	{"Name", 40, func(c models.Contact) string { return c.Name }},
	{"Category", 22, func(c models.Contact) string { return string(c.Category) }},
	{"Status", 22, func(c models.Contact) string { return string(c.ConnectionStatus) }},
	{"Industry", 26, func(c models.Contact) string { return c.Industry }},
	{"Email", 45, func(c models.Contact) string { return c.ContactEmail }},
	{"Saved", 22, func(c models.Contact) string { return c.SavedAt.Format(savedDateLayout) }},
}

// ExportPDF renders an A4 summary table of the contacts.
func ExportPDF(contacts []models.Contact) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("BitNet contacts", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "BitNet contacts")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%d contact(s)", len(contacts)))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 9)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 9)
	for _, c := range contacts {
		for _, col := range pdfColumns {
			text := fitText(pdf, tr(col.value(c)), col.width-2)
			pdf.CellFormat(col.width, 6, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitText trims s with an ellipsis until it fits width.
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
