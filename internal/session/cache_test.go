package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/lucentbi/ui-gateway/internal/domain/auth"
)

func testClassifier() *domainauth.Classifier {
	return domainauth.NewClassifier([]string{"/login"})
}

func TestFetchProfileIsNoOpOnPublicRoute(t *testing.T) {
	var fetches int32
	cache := NewCache(CacheOptions{
		Fetch: func(context.Context) (*Profile, error) {
			atomic.AddInt32(&fetches, 1)
			return &Profile{ID: "u1"}, nil
		},
		Classifier: testClassifier(),
	})

	p, err := cache.FetchProfile(context.Background(), "/login")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Zero(t, atomic.LoadInt32(&fetches))
}

func TestFetchProfileCachesOnce(t *testing.T) {
	var fetches int32
	cache := NewCache(CacheOptions{
		Fetch: func(context.Context) (*Profile, error) {
			atomic.AddInt32(&fetches, 1)
			return &Profile{ID: "u1", Username: "ana"}, nil
		},
		Classifier: testClassifier(),
	})

	first, err := cache.FetchProfile(context.Background(), "/home")
	require.NoError(t, err)
	second, err := cache.FetchProfile(context.Background(), "/dashboard")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches), "fetched at most once per session")
}

func TestFetchProfileDedupesConcurrentNavigations(t *testing.T) {
	var fetches int32
	started := make(chan struct{})
	release := make(chan struct{})
	cache := NewCache(CacheOptions{
		Fetch: func(context.Context) (*Profile, error) {
			atomic.AddInt32(&fetches, 1)
			close(started)
			<-release
			return &Profile{ID: "u1"}, nil
		},
		Classifier: testClassifier(),
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = cache.FetchProfile(context.Background(), "/home")
	}()
	<-started

	// Second rapid navigation while the first fetch is still in flight.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = cache.FetchProfile(context.Background(), "/dashboard")
	}()

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches), "concurrent fetches must share one call")
	assert.NotNil(t, cache.Profile())
	assert.False(t, cache.InFlight(), "in-flight guard cleared after success")
}

func TestFetchProfileFailureTriggersDeniedAndClearsGuard(t *testing.T) {
	denied := false
	cache := NewCache(CacheOptions{
		Fetch: func(context.Context) (*Profile, error) {
			return nil, errors.New("session expired")
		},
		Classifier: testClassifier(),
		OnDenied:   func() { denied = true },
	})

	_, err := cache.FetchProfile(context.Background(), "/home")
	require.Error(t, err)
	assert.True(t, denied)
	assert.Nil(t, cache.Profile())
	assert.False(t, cache.InFlight(), "in-flight guard cleared after failure")

	// A later fetch is not wedged by the earlier failure.
	cache.fetch = func(context.Context) (*Profile, error) {
		return &Profile{ID: "u2"}, nil
	}
	p, err := cache.FetchProfile(context.Background(), "/home")
	require.NoError(t, err)
	assert.Equal(t, "u2", p.ID)
}

func TestClearResetsProfile(t *testing.T) {
	cache := NewCache(CacheOptions{
		Fetch: func(context.Context) (*Profile, error) {
			return &Profile{ID: "u1"}, nil
		},
		Classifier: testClassifier(),
	})

	_, err := cache.FetchProfile(context.Background(), "/home")
	require.NoError(t, err)
	require.NotNil(t, cache.Profile())

	cache.Clear()
	assert.Nil(t, cache.Profile())
	assert.False(t, cache.InFlight())
}
