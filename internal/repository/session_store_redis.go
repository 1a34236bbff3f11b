package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/crm-dashboard/internal/domain"
)

type redisSessionStore struct {
	client *redis.Client
	key    string
}

// NewRedisSessionStore stores the session record under a fixed Redis key with no expiry.
func NewRedisSessionStore(client *redis.Client, key string) SessionStore {
	return &redisSessionStore{client: client, key: key}
}

func (s *redisSessionStore) Load(ctx context.Context) *domain.Session {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		return nil
	}
	return decodeSession(raw)
}

func (s *redisSessionStore) Save(ctx context.Context, session domain.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
