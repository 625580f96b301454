// Package users declares the credential store and its PostgreSQL and
// in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

// Repository persists user accounts. Emails are unique and are expected to be
// normalised (trimmed, lower-cased) by the caller.
//
// Missing rows yield common.ErrNotFound, duplicate emails common.ErrAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// Update writes the profile fields (names, company, job title, bio, links).
	Update(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
