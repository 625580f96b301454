package resettokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]models.ResetToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]models.ResetToken)}
}

func (r *MemoryRepository) Create(ctx context.Context, email string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token]; ok {
		return common.ErrAlreadyExists
	}
	r.tokens[token] = models.ResetToken{Token: token, Email: email, ExpiresAt: time.Now().Add(validity)}
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, token string) (*models.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &rt, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
	return nil
}
