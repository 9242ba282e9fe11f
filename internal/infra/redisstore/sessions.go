package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionPrefix is the key prefix for refresh sessions.
	SessionPrefix = "paywall:session:"
	// SessionTTL matches the session cookie max-age.
	SessionTTL = 7 * 24 * time.Hour
)

// SessionRegistry tracks live refresh sessions so that signing out revokes
// the refresh token server-side. Each key maps a session id to its user id.
type SessionRegistry struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &SessionRegistry{
		client: client,
		prefix: SessionPrefix,
		ttl:    ttl,
	}
}

func (s *SessionRegistry) Create(ctx context.Context, sessionID, userID string) error {
	if err := s.client.Set(ctx, s.buildKey(sessionID), userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return nil
}

// Exists reports whether the session is live and owned by userID. It does
// not extend the session.
func (s *SessionRegistry) Exists(ctx context.Context, sessionID, userID string) (bool, error) {
	return s.ownedBy(ctx, s.buildKey(sessionID), userID)
}

// Touch reports whether the session exists for userID and, if so, extends it.
func (s *SessionRegistry) Touch(ctx context.Context, sessionID, userID string) (bool, error) {
	key := s.buildKey(sessionID)
	ok, err := s.ownedBy(ctx, key, userID)
	if err != nil || !ok {
		return false, err
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return false, fmt.Errorf("failed to extend session in Redis: %w", err)
	}
	return true, nil
}

func (s *SessionRegistry) ownedBy(ctx context.Context, key, userID string) (bool, error) {
	owner, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read session from Redis: %w", err)
	}
	return owner == userID, nil
}

func (s *SessionRegistry) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.buildKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

func (s *SessionRegistry) buildKey(sessionID string) string {
	return s.prefix + sessionID
}
