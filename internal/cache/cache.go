package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/github-resume/internal/models"
)

type entry struct {
	detail    models.RepositoryDetail
	fetchedAt time.Time
}

// DetailCache maps owner/repo to a previously fetched RepositoryDetail with a
// fixed time-to-live. Expired entries behave as absent until overwritten or
// removed by the sweeper. Concurrent writes to the same key are
// last-write-wins; cached values are read-only snapshots, never mutated.
type DetailCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	logger  *logrus.Logger
}

// Option allows configuring the cache
type Option func(*DetailCache)

// WithClock overrides the cache's time source
func WithClock(now func() time.Time) Option {
	return func(c *DetailCache) {
		c.now = now
	}
}

// New creates a new DetailCache with the given TTL
func New(ttl time.Duration, logger *logrus.Logger, opts ...Option) *DetailCache {
	c := &DetailCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func key(owner, repo string) string {
	return fmt.Sprintf("%s/%s", owner, repo)
}

// Get returns the cached detail for owner/repo if it is still within the TTL
// window. An expired entry is reported as absent.
func (c *DetailCache) Get(owner, repo string) (models.RepositoryDetail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key(owner, repo)]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return models.RepositoryDetail{}, false
	}

	return e.detail, true
}

// Set unconditionally stores the detail for owner/repo, stamping it with the
// current time.
func (c *DetailCache) Set(owner, repo string, detail models.RepositoryDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key(owner, repo)] = entry{
		detail:    detail,
		fetchedAt: c.now(),
	}
}

// Len returns the number of entries currently held, expired or not.
func (c *DetailCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// StartSweeper periodically removes expired entries until the context is
// cancelled. Without it the map grows for the lifetime of the process.
func (c *DetailCache) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := c.Sweep()
			if removed > 0 {
				c.logger.WithField("removed", removed).Debug("Swept expired cache entries")
			}
		case <-ctx.Done():
			c.logger.Info("Stopping cache sweeper")
			return
		}
	}
}

// Sweep removes all expired entries and returns how many were removed.
func (c *DetailCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.fetchedAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}

	return removed
}
