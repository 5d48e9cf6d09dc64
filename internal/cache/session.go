package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hpnchanel/todoapi/internal/model"
)

const (
	// sessionPrefix is the Redis key prefix for resolved sessions.
	sessionPrefix = "session:"
	// sessionTTL bounds how long a resolved session is served from cache.
	sessionTTL = 5 * time.Minute
)

// revokedMarker is stored in place of a session once its token is revoked.
const revokedMarker = "revoked"

// ErrSessionRevoked is returned by GetSession for a token revoked within sessionTTL.
var ErrSessionRevoked = errors.New("session revoked")

// cachedSession is the Redis representation of a resolved token.
type cachedSession struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// GetSession returns the user a token hash was last resolved to.
// A miss, or a corrupted entry, returns (nil, nil). A revoked token
// returns ErrSessionRevoked.
func (c *Cache) GetSession(ctx context.Context, tokenHash string) (*model.User, error) {
	data, err := c.client.Get(ctx, sessionPrefix+tokenHash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if string(data) == revokedMarker {
		return nil, ErrSessionRevoked
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, nil //nolint:nilerr
	}

	return &model.User{
		ID:        cached.UserID,
		Email:     cached.Email,
		CreatedAt: cached.CreatedAt,
	}, nil
}

// SetSession caches the user a token hash resolves to. It never replaces an
// existing entry, so a lookup that raced a logout cannot undo the revocation.
func (c *Cache) SetSession(ctx context.Context, tokenHash string, user *model.User) error {
	data, err := json.Marshal(cachedSession{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return c.client.SetNX(ctx, sessionPrefix+tokenHash, data, sessionTTL).Err()
}

// RevokeSession replaces any cached session with a revocation marker that
// outlives every entry written before it. Used on logout.
func (c *Cache) RevokeSession(ctx context.Context, tokenHash string) error {
	return c.client.Set(ctx, sessionPrefix+tokenHash, revokedMarker, sessionTTL).Err()
}
