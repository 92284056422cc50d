package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage keeps refresh tokens, keyed by token id, valued by user id.
// Deleting a token revokes the session.
type Storage struct {
	redis *redis.Client
}

func NewStorage(r *redis.Client) *Storage {
	return &Storage{
		redis: r,
	}
}

func (s *Storage) Get(ctx context.Context, tokenID string) (string, error) {
	return s.redis.Get(ctx, tokenID).Result()
}

func (s *Storage) Set(ctx context.Context, tokenID, userID string, expiration time.Duration) error {
	return s.redis.Set(ctx, tokenID, userID, expiration).Err()
}

func (s *Storage) Revoke(ctx context.Context, tokenID string) error {
	return s.redis.Del(ctx, tokenID).Err()
}
