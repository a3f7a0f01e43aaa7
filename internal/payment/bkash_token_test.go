package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGranter struct {
	mu        sync.Mutex
	calls     int
	token     string
	expiresIn time.Duration
	err       error
}

func (f *fakeGranter) GrantToken(context.Context) (string, time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", 0, f.err
	}
	return f.token, f.expiresIn, nil
}

func (f *fakeGranter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestTokenCacheReusesUntilMargin(t *testing.T) {
	granter := &fakeGranter{token: "tok-1", expiresIn: time.Hour}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cache := NewTokenCache(granter, func() time.Time { return now })

	tok, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// Well within validity: no second grant call.
	now = now.Add(30 * time.Minute)
	tok, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, 1, granter.callCount())
}

func TestTokenCacheRefreshesNearExpiry(t *testing.T) {
	granter := &fakeGranter{token: "tok-1", expiresIn: time.Hour}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cache := NewTokenCache(granter, func() time.Time { return now })

	_, err := cache.Token(context.Background())
	require.NoError(t, err)

	// 29 seconds before declared expiry: inside the refresh margin.
	granter.token = "tok-2"
	now = now.Add(time.Hour - 29*time.Second)

	tok, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, 2, granter.callCount())
}

func TestTokenCacheGrantError(t *testing.T) {
	granter := &fakeGranter{err: errors.New("grant rejected")}
	cache := NewTokenCache(granter, nil)

	_, err := cache.Token(context.Background())
	require.Error(t, err)
}

func TestTokenCacheConcurrentRefreshCollapses(t *testing.T) {
	granter := &fakeGranter{token: "tok-1", expiresIn: time.Hour}
	cache := NewTokenCache(granter, nil)

	const callers = 20
	var wg sync.WaitGroup
	wg.Add(callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := cache.Token(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	// All initial callers share one in-flight grant.
	assert.Equal(t, 1, granter.callCount())
}
