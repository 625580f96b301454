// Package resettokens stores single-use password reset tokens in PostgreSQL,
// Redis or process memory.
package resettokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

// Repository persists reset tokens. Find returns common.ErrNotFound for unknown
// tokens; expiry is checked by the caller.
type Repository interface {
	Create(ctx context.Context, email string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.ResetToken, error)
	Delete(ctx context.Context, token string) error
}
