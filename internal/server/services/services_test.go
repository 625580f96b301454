package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/dbx"
	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/server/config"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/companies"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/resettokens"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.BaseURL = "https://bitnet.test/"
	return cfg
}

func newTestUserService(t *testing.T, rm repomanager.RepositoryManager) *UserService {
	t.Helper()
	return NewUserService(nil, rm, testConfig(), logging.NewDiscardLogger())
}

// failingRepoManager returns repositories whose every call fails with errBoom.
type failingRepoManager struct{}

func (failingRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (failingRepoManager) Users(dbx.DBTX) users.Repository              { return failingUsers{} }
func (failingRepoManager) Companies(dbx.DBTX) companies.Repository      { return failingCompanies{} }
func (failingRepoManager) ResetTokens(dbx.DBTX) resettokens.Repository  { return failingTokens{} }

type failingUsers struct{}

func (failingUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, errBoom{} }
func (failingUsers) GetByEmail(context.Context, string) (*models.User, error)   { return nil, errBoom{} }
func (failingUsers) GetByID(context.Context, int64) (*models.User, error)       { return nil, errBoom{} }
func (failingUsers) Update(context.Context, *models.User) (*models.User, error) { return nil, errBoom{} }
func (failingUsers) UpdatePassword(context.Context, int64, string) error        { return errBoom{} }

type failingCompanies struct{}

func (failingCompanies) Create(context.Context, *models.Company) (*models.Company, error) {
	return nil, errBoom{}
}
func (failingCompanies) GetByOwner(context.Context, int64) (*models.Company, error) {
	return nil, errBoom{}
}
func (failingCompanies) GetByID(context.Context, int64) (*models.Company, error) {
	return nil, errBoom{}
}
func (failingCompanies) UpdateByOwner(context.Context, *models.Company) (*models.Company, error) {
	return nil, errBoom{}
}
func (failingCompanies) List(context.Context) ([]*models.Company, error) { return nil, errBoom{} }

type failingTokens struct{}

func (failingTokens) Create(context.Context, string, string, time.Duration) error {
	return errBoom{}
}
func (failingTokens) Find(context.Context, string) (*models.ResetToken, error) {
	return nil, errBoom{}
}
func (failingTokens) Delete(context.Context, string) error { return errBoom{} }

func isBoom(err error) bool {
	return errors.As(err, new(errBoom))
}
