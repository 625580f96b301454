package resettokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// redisCmdable is the subset of *redis.Client the repository needs.
type redisCmdable interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRepository keeps each token under reset:<token> with a TTL equal to
// its validity, so expired tokens disappear on their own.
type RedisRepository struct {
	rdb redisCmdable
}

func NewRedisRepository(rdb redisCmdable) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

type redisValue struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func redisKey(token string) string {
	return "reset:" + token
}

func (r *RedisRepository) Create(ctx context.Context, email string, token string, validity time.Duration) error {
	data, err := json.Marshal(redisValue{Email: email, ExpiresAt: time.Now().Add(validity).UTC()})
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, redisKey(token), data, validity).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Find(ctx context.Context, token string) (*models.ResetToken, error) {
	value, err := r.rdb.Get(ctx, redisKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var v redisValue
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return nil, fmt.Errorf("redis value: %w", err)
	}
	return &models.ResetToken{Token: token, Email: v.Email, ExpiresAt: v.ExpiresAt}, nil
}

func (r *RedisRepository) Delete(ctx context.Context, token string) error {
	if err := r.rdb.Del(ctx, redisKey(token)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
