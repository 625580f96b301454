package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/exchange"
	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/dmitrijs2005/bitnet/internal/server/qrstore"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/repomanager"
)

// QRCode is a rendered company QR: a loadable image URL, the payload and the
// exact text embedded in the code.
type QRCode struct {
	Image string           `json:"qrCode"`
	Data  exchange.Payload `json:"data"`
	Text  string           `json:"text"`
}

type CompanyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	encoder     exchange.Encoder
	qrSize      int
	publisher   qrstore.Publisher
	log         logging.Logger
}

func NewCompanyService(db *sql.DB, m repomanager.RepositoryManager, encoder exchange.Encoder, qrSize int, publisher qrstore.Publisher, log logging.Logger) *CompanyService {
	if publisher == nil {
		publisher = qrstore.DataURLPublisher{}
	}
	return &CompanyService{
		db:          db,
		repomanager: m,
		encoder:     encoder,
		qrSize:      qrSize,
		publisher:   publisher,
		log:         log.With("module", "companies"),
	}
}

var errProfileNotFound = common.NewError(common.ErrNotFound, "Company profile not found")

func validateCompany(in *models.CompanyInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.Industry) == "" {
		return common.NewError(common.ErrValidation, "Company name and industry are required")
	}
	industry, ok := models.NormalizeIndustry(in.Industry)
	if !ok {
		return common.NewError(common.ErrValidation,
			"Industry must be one of: "+strings.Join(models.Industries, ", "))
	}
	in.Industry = industry
	return nil
}

// Create publishes the owner's profile. An owner may have only one.
func (s *CompanyService) Create(ctx context.Context, ownerID int64, in models.CompanyInput) (*models.Company, error) {
	if err := validateCompany(&in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Companies(s.db)
	if _, err := repo.GetByOwner(ctx, ownerID); err == nil {
		return nil, common.NewError(common.ErrAlreadyExists, "User already has a company profile")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error loading company: %w", err)
	}

	c := &models.Company{OwnerID: ownerID}
	in.ApplyTo(c)

	created, err := repo.Create(ctx, c)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.NewError(common.ErrAlreadyExists, "User already has a company profile")
		}
		return nil, fmt.Errorf("error creating company: %w", err)
	}

	s.log.Info(ctx, "company created", "company_id", created.ID, "owner_id", ownerID)
	return created, nil
}

// Mine returns the profile owned by ownerID.
func (s *CompanyService) Mine(ctx context.Context, ownerID int64) (*models.Company, error) {
	c, err := s.repomanager.Companies(s.db).GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errProfileNotFound
		}
		return nil, fmt.Errorf("error loading company: %w", err)
	}
	return c, nil
}

// UpdateMine replaces the writable fields of the owner's profile.
func (s *CompanyService) UpdateMine(ctx context.Context, ownerID int64, in models.CompanyInput) (*models.Company, error) {
	if err := validateCompany(&in); err != nil {
		return nil, err
	}

	c := &models.Company{OwnerID: ownerID}
	in.ApplyTo(c)

	updated, err := s.repomanager.Companies(s.db).UpdateByOwner(ctx, c)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errProfileNotFound
		}
		return nil, fmt.Errorf("error updating company: %w", err)
	}

	s.log.Info(ctx, "company updated", "company_id", updated.ID)
	return updated, nil
}

func (s *CompanyService) List(ctx context.Context) ([]*models.Company, error) {
	list, err := s.repomanager.Companies(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing companies: %w", err)
	}
	return list, nil
}

func (s *CompanyService) Get(ctx context.Context, id int64) (*models.Company, error) {
	c, err := s.repomanager.Companies(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Company not found")
		}
		return nil, fmt.Errorf("error loading company: %w", err)
	}
	return c, nil
}

// QRCode renders the owner's profile as a QR image and publishes it.
func (s *CompanyService) QRCode(ctx context.Context, ownerID int64) (*QRCode, error) {
	c, err := s.Mine(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	payload := exchange.NewPayload(c)
	text, err := s.encoder.Text(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode qr: %v", common.ErrInternal, err)
	}
	png, err := s.encoder.PNG(payload, s.qrSize)
	if err != nil {
		return nil, fmt.Errorf("%w: render qr: %v", common.ErrInternal, err)
	}

	image, err := s.publisher.Publish(ctx, c.ID, png)
	if err != nil {
		return nil, fmt.Errorf("%w: publish qr: %v", common.ErrInternal, err)
	}

	// Report the payload exactly as embedded, including the profile URL.
	embedded, err := exchange.ParseText(text)
	if err != nil {
		return nil, fmt.Errorf("%w: parse qr text: %v", common.ErrInternal, err)
	}

	return &QRCode{Image: image, Data: embedded, Text: text}, nil
}
