// Package session implements the client-side session context cache: one
// lazily fetched profile per active session, shared by the authenticated
// views of the application shell.
package session

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/lucentbi/ui-gateway/internal/domain/auth"
)

// Profile is the authenticated user's profile as returned by the backend.
type Profile struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
}

// FetchFunc performs the authenticated profile fetch. It is the
// credential-forwarding fetch helper owned by the caller.
type FetchFunc func(ctx context.Context) (*Profile, error)

// CacheOptions groups dependencies for NewCache.
type CacheOptions struct {
	Fetch      FetchFunc
	Classifier *domainauth.Classifier
	// OnDenied runs when a fetch fails on a protected route, typically a
	// client-side redirect to login.
	OnDenied func()
	Logger   *slog.Logger
}

// Cache holds at most one live Profile per client lifetime. Concurrent
// fetch attempts triggered by rapid navigation are deduped; the in-flight
// guard is cleared on every exit path so a failure can never wedge future
// fetches.
type Cache struct {
	mu       sync.Mutex
	profile  *Profile
	inFlight bool

	group      singleflight.Group
	fetch      FetchFunc
	classifier *domainauth.Classifier
	onDenied   func()
	logger     *slog.Logger
}

// NewCache constructs a session cache.
func NewCache(opts CacheOptions) *Cache {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		fetch:      opts.Fetch,
		classifier: opts.Classifier,
		onDenied:   opts.OnDenied,
		logger:     logger,
	}
}

// Profile returns the cached profile, or nil when none has been fetched.
func (c *Cache) Profile() *Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// FetchProfile ensures the profile for the current session is cached.
// It is a no-op on public routes and when a profile is already cached.
// Duplicate concurrent invocations share a single underlying fetch.
func (c *Cache) FetchProfile(ctx context.Context, routePath string) (*Profile, error) {
	if c.classifier != nil && c.classifier.Classify(routePath) == domainauth.RoutePublic {
		return nil, nil
	}

	c.mu.Lock()
	if c.profile != nil {
		p := c.profile
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("profile", func() (any, error) {
		c.setInFlight(true)
		defer c.setInFlight(false)

		profile, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.profile = profile
		c.mu.Unlock()
		return profile, nil
	})
	if err != nil {
		c.logger.Info("profile fetch failed, session presumed ended", slog.Any("error", err))
		if c.onDenied != nil {
			c.onDenied()
		}
		return nil, err
	}
	return v.(*Profile), nil
}

// Clear resets the cached profile and the in-flight guard. Used on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = nil
	c.inFlight = false
}

// InFlight reports whether a fetch is currently running.
func (c *Cache) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *Cache) setInFlight(v bool) {
	c.mu.Lock()
	c.inFlight = v
	c.mu.Unlock()
}
