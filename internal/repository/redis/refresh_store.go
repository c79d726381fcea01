package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Noteboard/internal/auth"
	"github.com/NordCoder/Noteboard/internal/domain/session"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var _ session.RefreshStore = (*RefreshStore)(nil)

// RefreshStore keeps hash(token) -> user id with a native key TTL, so expiry
// is enforced by Redis itself.
type RefreshStore struct {
	client *redis.Client
	prefix string
}

func NewRefreshStore(client *redis.Client, prefix string) *RefreshStore {
	return &RefreshStore{client: client, prefix: prefix}
}

func (s *RefreshStore) key(token string) string { return s.prefix + auth.HashToken(token) }

func (s *RefreshStore) Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		return session.ErrInvalidTTL
	}
	if err := s.client.Set(ctx, s.key(token), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RefreshStore) Get(ctx context.Context, token string) (uuid.UUID, error) {
	v, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, session.ErrTokenNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis get: %w", err)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis value: %w", err)
	}
	return id, nil
}

func (s *RefreshStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RefreshStore) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }
