package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/bitnet/internal/client/api"
	"github.com/dmitrijs2005/bitnet/internal/exchange"
	"github.com/dmitrijs2005/bitnet/internal/filex"
	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/netx"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

// CompanyAPI is the part of the HTTP API that manages company profiles.
type CompanyAPI interface {
	CreateCompany(ctx context.Context, in models.CompanyInput) (*models.Company, error)
	MyCompany(ctx context.Context) (*models.Company, error)
	UpdateMyCompany(ctx context.Context, in models.CompanyInput) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	MyCompanyQR(ctx context.Context) (*api.QR, error)
}

// SavedQR describes a QR image written to disk.
type SavedQR struct {
	Path string
	Text string
	Data exchange.Payload
}

// CompanyService wraps the company endpoints and saves the caller's QR code
// as a PNG so it can be shared.
type CompanyService interface {
	Create(ctx context.Context, in models.CompanyInput) (*models.Company, error)
	Mine(ctx context.Context) (*models.Company, error)
	UpdateMine(ctx context.Context, in models.CompanyInput) (*models.Company, error)
	List(ctx context.Context) ([]models.Company, error)
	Get(ctx context.Context, id int64) (*models.Company, error)
	SaveQR(ctx context.Context) (*SavedQR, error)
}

type companyService struct {
	api       CompanyAPI
	http      *http.Client
	exportDir string
	log       logging.Logger
}

func NewCompanyService(a CompanyAPI, httpClient *http.Client, exportDir string, log logging.Logger) CompanyService {
	return &companyService{api: a, http: httpClient, exportDir: exportDir, log: log.With("module", "company")}
}

func (s *companyService) Create(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	return s.api.CreateCompany(ctx, in)
}

func (s *companyService) Mine(ctx context.Context) (*models.Company, error) {
	return s.api.MyCompany(ctx)
}

func (s *companyService) UpdateMine(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	return s.api.UpdateMyCompany(ctx, in)
}

func (s *companyService) List(ctx context.Context) ([]models.Company, error) {
	return s.api.ListCompanies(ctx)
}

func (s *companyService) Get(ctx context.Context, id int64) (*models.Company, error) {
	return s.api.GetCompany(ctx, id)
}

// SaveQR downloads the rendered QR (inline or presigned URL) and writes it
// to company-<id>-qr.png in the export directory.
func (s *companyService) SaveQR(ctx context.Context) (*SavedQR, error) {
	qr, err := s.api.MyCompanyQR(ctx)
	if err != nil {
		return nil, err
	}

	img, err := netx.FetchImage(ctx, s.http, qr.Image, exchange.MaxImageBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch qr image: %w", err)
	}

	path, err := filex.WriteFile(s.exportDir, fmt.Sprintf("company-%d-qr.png", qr.Data.CompanyID), img)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "qr saved", "path", path)
	return &SavedQR{Path: path, Text: qr.Text, Data: qr.Data}, nil
}
