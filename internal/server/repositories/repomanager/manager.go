package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bitnet/internal/dbx"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/companies"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/resettokens"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DB handle (a *sql.DB, a
// *sql.Tx, or nil for the in-memory backend) and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Companies(db dbx.DBTX) companies.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
}

// withResetTokens overrides the reset token store of an underlying manager.
type withResetTokens struct {
	RepositoryManager
	store resettokens.Repository
}

func (m *withResetTokens) ResetTokens(dbx.DBTX) resettokens.Repository {
	return m.store
}

// WithResetTokenStore returns m with its reset tokens served by store, e.g.
// the Redis repository. A nil store returns m unchanged.
func WithResetTokenStore(m RepositoryManager, store resettokens.Repository) RepositoryManager {
	if store == nil {
		return m
	}
	return &withResetTokens{RepositoryManager: m, store: store}
}
