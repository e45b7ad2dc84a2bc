package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecostation/monitoring-console/internal/core/domain"
)

// SessionStore keeps live sessions in Redis, keyed by console id, with the
// TTL acting as the session's validity window.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save persists the session until its expiry.
func (s *SessionStore) Save(ctx context.Context, consoleID string, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session save: marshal: %w", err)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session save: already expired")
	}
	if err := s.client.Set(ctx, s.key(consoleID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Get returns the stored session, or ErrSessionNotFound when none exists
// (including after TTL expiry).
func (s *SessionStore) Get(ctx context.Context, consoleID string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, s.key(consoleID)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("session get: unmarshal: %w", err)
	}
	return &session, nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (s *SessionStore) Delete(ctx context.Context, consoleID string) error {
	if err := s.client.Del(ctx, s.key(consoleID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(consoleID string) string {
	return "session:" + consoleID
}
