package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/client/ledger"
	"github.com/dmitrijs2005/bitnet/internal/client/models"
	"github.com/dmitrijs2005/bitnet/internal/exchange"
	"github.com/dmitrijs2005/bitnet/internal/filex"
	"github.com/dmitrijs2005/bitnet/internal/logging"
)

type ExportFormat string

const (
	FormatCSV   ExportFormat = "csv"
	FormatVCard ExportFormat = "vcard"
	FormatPDF   ExportFormat = "pdf"
)

func (f ExportFormat) ext() string {
	switch f {
	case FormatVCard:
		return "vcf"
	default:
		return string(f)
	}
}

// ContactService turns scanned QR codes into ledger contacts and writes
// ledger exports. Scanning never talks to the server, and a code that fails
// to decode leaves the ledger untouched.
type ContactService interface {
	ScanImage(ctx context.Context, img []byte, category models.Category) (models.Contact, error)
	ScanFile(ctx context.Context, path string, category models.Category) (models.Contact, error)
	ScanText(ctx context.Context, text string, category models.Category) (models.Contact, error)
	Export(ctx context.Context, format ExportFormat, f models.Filter) (string, error)
}

type contactService struct {
	ledger    *ledger.Ledger
	exportDir string
	log       logging.Logger
	now       func() time.Time
}

func NewContactService(l *ledger.Ledger, exportDir string, log logging.Logger) ContactService {
	return &contactService{ledger: l, exportDir: exportDir, log: log.With("module", "contacts"), now: time.Now}
}

func (s *contactService) save(ctx context.Context, p exchange.Payload, category models.Category) (models.Contact, error) {
	c, err := s.ledger.Save(ctx, p, category)
	if err != nil {
		return models.Contact{}, err
	}
	s.log.Info(ctx, "contact saved", "company_id", c.CompanyID, "category", c.Category)
	return c, nil
}

func (s *contactService) ScanImage(ctx context.Context, img []byte, category models.Category) (models.Contact, error) {
	p, err := exchange.Decode(img)
	if err != nil {
		return models.Contact{}, err
	}
	return s.save(ctx, p, category)
}

func (s *contactService) ScanFile(ctx context.Context, path string, category models.Category) (models.Contact, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return models.Contact{}, err
	}
	if fi.Size() > exchange.MaxImageBytes {
		return models.Contact{}, fmt.Errorf("%w: %s is larger than %d bytes", exchange.ErrNoCodeFound, path, exchange.MaxImageBytes)
	}
	img, err := os.ReadFile(path)
	if err != nil {
		return models.Contact{}, err
	}
	return s.ScanImage(ctx, img, category)
}

// ScanText accepts the decoded text of a code, as pasted from another scanner.
func (s *contactService) ScanText(ctx context.Context, text string, category models.Category) (models.Contact, error) {
	p, err := exchange.ParseText(text)
	if err != nil {
		return models.Contact{}, err
	}
	return s.save(ctx, p, category)
}

// Export writes the filtered contacts to a timestamped file in the export
// directory and returns its path.
func (s *contactService) Export(ctx context.Context, format ExportFormat, f models.Filter) (string, error) {
	contacts, err := s.ledger.List(ctx, f)
	if err != nil {
		return "", err
	}

	var data []byte
	switch format {
	case FormatCSV:
		data = []byte(ledger.ExportCSV(contacts))
	case FormatVCard:
		text, err := ledger.ExportVCard(contacts)
		if err != nil {
			return "", err
		}
		data = []byte(text)
	case FormatPDF:
		data, err = ledger.ExportPDF(contacts)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}

	name := fmt.Sprintf("bitnet-contacts-%s.%s", s.now().Format("20060102-150405"), format.ext())
	path, err := filex.WriteFile(s.exportDir, name, data)
	if err != nil {
		return "", err
	}
	s.log.Info(ctx, "contacts exported", "format", string(format), "count", len(contacts), "path", path)
	return path, nil
}
