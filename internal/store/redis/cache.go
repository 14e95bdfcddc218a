package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ShortLinkCache maps long URLs to their shortened form.
type ShortLinkCache struct {
	client *redis.Client
}

// Get returns the cached short URL; ok is false on a miss.
func (c *ShortLinkCache) Get(ctx context.Context, longURL string) (string, bool, error) {
	short, err := c.client.Get(ctx, ShortKey(longURL)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil // Cache miss
		}
		return "", false, fmt.Errorf("failed to get cached short link: %w", err)
	}
	return short, true, nil
}

// Set stores a shortened URL for ttl
func (c *ShortLinkCache) Set(ctx context.Context, longURL, short string, ttl time.Duration) error {
	if err := c.client.Set(ctx, ShortKey(longURL), short, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache short link: %w", err)
	}
	return nil
}
