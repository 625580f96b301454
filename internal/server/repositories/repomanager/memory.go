package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bitnet/internal/dbx"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/companies"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/resettokens"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out the same process-local repositories for
// every handle. Data is lost on restart.
type MemoryRepositoryManager struct {
	users       *users.MemoryRepository
	companies   *companies.MemoryRepository
	resetTokens *resettokens.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:       users.NewMemoryRepository(),
		companies:   companies.NewMemoryRepository(),
		resetTokens: resettokens.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Companies(dbx.DBTX) companies.Repository { return m.companies }

func (m *MemoryRepositoryManager) ResetTokens(dbx.DBTX) resettokens.Repository {
	return m.resetTokens
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }
