package payment

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TokenGranter exchanges credentials for a short-lived bearer token.
type TokenGranter interface {
	GrantToken(ctx context.Context) (token string, expiresIn time.Duration, err error)
}

// TokenCache hands out a cached bearer token, refreshing it once it is
// within the refresh margin of expiry. Concurrent refreshes collapse
// into one grant call via singleflight; a lost race keeps the last
// written token, which is always still valid.
type TokenCache struct {
	granter TokenGranter
	now     func() time.Time

	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	group singleflight.Group
}

// Refresh this long before the declared expiry.
const tokenRefreshMargin = 30 * time.Second

// NewTokenCache takes the clock used for expiry checks; nil means the
// wall clock.
func NewTokenCache(granter TokenGranter, clock func() time.Time) *TokenCache {
	if clock == nil {
		clock = time.Now
	}
	return &TokenCache{
		granter: granter,
		now:     clock,
	}
}

// Token returns a bearer token valid for at least the refresh margin.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	token, expiresAt := c.token, c.expiresAt
	c.mu.RUnlock()

	if token != "" && c.now().Before(expiresAt.Add(-tokenRefreshMargin)) {
		return token, nil
	}

	v, err, _ := c.group.Do("grant", func() (any, error) {
		fresh, expiresIn, err := c.granter.GrantToken(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.token = fresh
		c.expiresAt = c.now().Add(expiresIn)
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
