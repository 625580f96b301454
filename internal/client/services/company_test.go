package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/bitnet/internal/client/api"
	"github.com/dmitrijs2005/bitnet/internal/exchange"
	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompanyAPI struct {
	created models.CompanyInput
	qr      *api.QR
	qrErr   error
}

func (f *fakeCompanyAPI) CreateCompany(_ context.Context, in models.CompanyInput) (*models.Company, error) {
	f.created = in
	return &models.Company{ID: 1, Name: in.Name}, nil
}
func (f *fakeCompanyAPI) MyCompany(context.Context) (*models.Company, error) {
	return &models.Company{ID: 1}, nil
}
func (f *fakeCompanyAPI) UpdateMyCompany(_ context.Context, in models.CompanyInput) (*models.Company, error) {
	return &models.Company{ID: 1, Name: in.Name}, nil
}
func (f *fakeCompanyAPI) ListCompanies(context.Context) ([]models.Company, error) {
	return []models.Company{{ID: 1}, {ID: 2}}, nil
}
func (f *fakeCompanyAPI) GetCompany(_ context.Context, id int64) (*models.Company, error) {
	return &models.Company{ID: id}, nil
}
func (f *fakeCompanyAPI) MyCompanyQR(context.Context) (*api.QR, error) {
	return f.qr, f.qrErr
}

func qrPNG(t *testing.T) []byte {
	t.Helper()
	png, err := exchange.Encoder{Strategy: exchange.StrategyRaw}.PNG(acme(), 256)
	require.NoError(t, err)
	return png
}

func TestCompany_Delegates(t *testing.T) {
	f := &fakeCompanyAPI{}
	s := NewCompanyService(f, nil, t.TempDir(), logging.NewDiscardLogger())
	ctx := context.Background()

	c, err := s.Create(ctx, models.CompanyInput{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, "Acme", f.created.Name)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := s.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
}

func TestCompany_SaveQRFromDataURL(t *testing.T) {
	png := qrPNG(t)
	dir := t.TempDir()
	f := &fakeCompanyAPI{qr: &api.QR{
		Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		Data:  acme(),
		Text:  "{}",
	}}
	s := NewCompanyService(f, nil, dir, logging.NewDiscardLogger())

	saved, err := s.SaveQR(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "company-42-qr.png"), saved.Path)

	b, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	p, err := exchange.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.CompanyID)
}

func TestCompany_SaveQRFromPresignedURL(t *testing.T) {
	png := qrPNG(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer ts.Close()

	dir := t.TempDir()
	f := &fakeCompanyAPI{qr: &api.QR{Image: ts.URL + "/qr/42.png", Data: acme()}}
	s := NewCompanyService(f, ts.Client(), dir, logging.NewDiscardLogger())

	saved, err := s.SaveQR(context.Background())
	require.NoError(t, err)
	b, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.Equal(t, png, b)
}

func TestCompany_SaveQRErrors(t *testing.T) {
	f := &fakeCompanyAPI{qrErr: &api.Error{Status: http.StatusNotFound, Message: "Company profile not found"}}
	s := NewCompanyService(f, nil, t.TempDir(), logging.NewDiscardLogger())
	_, err := s.SaveQR(context.Background())
	assert.Error(t, err)

	f = &fakeCompanyAPI{qr: &api.QR{Image: "data:text/plain,oops", Data: acme()}}
	s = NewCompanyService(f, nil, t.TempDir(), logging.NewDiscardLogger())
	_, err = s.SaveQR(context.Background())
	assert.Error(t, err)
}
