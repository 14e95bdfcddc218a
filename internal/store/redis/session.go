package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sageverse/tree/internal/session"
)

// SessionStore keeps session records as JSON strings whose TTL matches
// the session expiry, so Redis drops them on its own.
type SessionStore struct {
	client *redis.Client
}

// Save stores a session; already expired sessions are deleted instead.
func (s *SessionStore) Save(ctx context.Context, sess session.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, SessionKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID
func (s *SessionStore) Get(ctx context.Context, id string) (session.Session, error) {
	data, err := s.client.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, session.ErrNoSession
		}
		return session.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return session.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return session.Session{}, session.ErrNoSession
	}
	return sess, nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, SessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Count returns the number of live session keys.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixSession+"*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

// Stats reports the live key count. Redis expires sessions itself, so
// there is never a sweep.
func (s *SessionStore) Stats(ctx context.Context) (session.Stats, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return session.Stats{}, err
	}
	return session.Stats{Backend: "redis", Active: n}, nil
}
