// Package companies stores company profiles, at most one per owner.
package companies

import (
	"context"

	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

// Repository persists company profiles.
//
// Create reports common.ErrAlreadyExists when the owner already has a profile.
// Lookups of missing rows yield common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, company *models.Company) (*models.Company, error)
	GetByOwner(ctx context.Context, ownerID int64) (*models.Company, error)
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	UpdateByOwner(ctx context.Context, company *models.Company) (*models.Company, error)
	// List returns every profile ordered by id.
	List(ctx context.Context) ([]*models.Company, error)
}
