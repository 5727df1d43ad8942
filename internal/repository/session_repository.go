package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRepo keeps refresh sessions in Redis, keyed by the SHA-256 hash
// of the raw refresh token. Expiry is handled by the key TTL, so there
// is nothing to sweep. Only the hash ever reaches Redis; the raw token
// lives solely with the client.
type SessionRepo struct {
	rdb *redis.Client
}

// NewSessionRepo returns a SessionRepo bound to the given Redis client.
func NewSessionRepo(rdb *redis.Client) *SessionRepo { return &SessionRepo{rdb: rdb} }

// Session is the payload stored per refresh token.
type Session struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
}

func sessionKey(tokenHash string) string { return "session:" + tokenHash }

// Store saves a session under the token hash with the given TTL.
func (r *SessionRepo) Store(ctx context.Context, tokenHash string, s Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.SetEx(ctx, sessionKey(tokenHash), payload, ttl).Err()
}

// Get returns the session for a token hash. Missing or expired keys
// yield ErrSessionNotFound.
func (r *SessionRepo) Get(ctx context.Context, tokenHash string) (Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Revoke deletes the session. Deleting an absent key is not an error.
func (r *SessionRepo) Revoke(ctx context.Context, tokenHash string) error {
	return r.rdb.Del(ctx, sessionKey(tokenHash)).Err()
}
