package codes

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage keeps short-lived email sign-in codes, keyed by address.
type Storage struct {
	redis *redis.Client
}

func NewStorage(r *redis.Client) *Storage {
	return &Storage{
		redis: r,
	}
}

func (s *Storage) Get(ctx context.Context, email string) (string, error) {
	return s.redis.Get(ctx, email).Result()
}

func (s *Storage) Set(ctx context.Context, email, code string, expiration time.Duration) error {
	return s.redis.Set(ctx, email, code, expiration).Err()
}

func (s *Storage) Clear(ctx context.Context, email string) error {
	return s.redis.Del(ctx, email).Err()
}
