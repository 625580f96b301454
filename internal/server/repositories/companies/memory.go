package companies

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

// MemoryRepository keeps profiles in process memory. Safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*models.Company
	byOwner map[int64]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[int64]*models.Company),
		byOwner: make(map[int64]int64),
	}
}

func clone(c *models.Company) *models.Company {
	out := *c
	out.ContactPersons = append([]models.ContactPerson{}, c.ContactPersons...)
	return &out
}

func (r *MemoryRepository) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byOwner[company.OwnerID]; ok {
		return nil, common.ErrAlreadyExists
	}

	r.nextID++
	now := time.Now().UTC()
	stored := clone(company)
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byID[stored.ID] = stored
	r.byOwner[stored.OwnerID] = stored.ID

	return clone(stored), nil
}

func (r *MemoryRepository) GetByOwner(ctx context.Context, ownerID int64) (*models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byOwner[ownerID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(c), nil
}

func (r *MemoryRepository) UpdateByOwner(ctx context.Context, company *models.Company) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byOwner[company.OwnerID]
	if !ok {
		return nil, common.ErrNotFound
	}
	prev := r.byID[id]

	stored := clone(company)
	stored.ID = prev.ID
	stored.CreatedAt = prev.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.byID[id] = stored

	return clone(stored), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Company, 0, len(r.byID))
	for _, c := range r.byID {
		result = append(result, clone(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
