package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store groups the Redis-backed pieces of the app around one client.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Sessions returns the session record store.
func (s *Store) Sessions() *SessionStore {
	return &SessionStore{client: s.client}
}

// ShortLinks returns the shortened URL cache.
func (s *Store) ShortLinks() *ShortLinkCache {
	return &ShortLinkCache{client: s.client}
}

// Ping backs the redis component of /readyz.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
