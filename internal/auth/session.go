package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const revokedKeyPrefix = "session:revoked:"

// SessionStore is the explicit server-side session state: revoked token
// ids live in Redis until the token itself would have expired, so logout
// actually invalidates a session instead of relying on the client to
// forget its token.
type SessionStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client *redis.Client, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{client: client, logger: logger}
}

// Revoke marks a token id as logged out until the token's own expiry.
func (s *SessionStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether a token id has been logged out. Redis failures
// fail open with a warning: a down session store must not lock everyone out.
func (s *SessionStore) IsRevoked(ctx context.Context, tokenID string) bool {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		s.logger.Warn("session store check failed", zap.Error(err))
		return false
	}
	return n > 0
}
