package repomanager

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/resettokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryManager_SharesState(t *testing.T) {
	m := NewMemoryRepositoryManager()
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx, nil))

	u, err := m.Users(nil).Create(ctx, &models.User{Email: "ann@example.com"})
	require.NoError(t, err)

	got, err := m.Users(nil).GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.Email)

	require.NoError(t, m.ResetTokens(nil).Create(ctx, "ann@example.com", "tok", time.Minute))
	_, err = m.ResetTokens(nil).Find(ctx, "tok")
	assert.NoError(t, err)
}

func TestWithResetTokenStore(t *testing.T) {
	base := NewMemoryRepositoryManager()
	override := resettokens.NewMemoryRepository()

	m := WithResetTokenStore(base, override)
	assert.Same(t, override, m.ResetTokens(nil))
	assert.Same(t, base.Users(nil), m.Users(nil))

	assert.Same(t, RepositoryManager(base), WithResetTokenStore(base, nil))
}
