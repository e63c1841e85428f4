package environment

import (
	"context"
	"sync"
	"time"
)

// ProbeFunc captures a snapshot. Swappable in tests.
type ProbeFunc func(ctx context.Context, timeout time.Duration) *Profile

// Cache wraps a ProbeFunc with a TTL. Concurrent callers during a refresh
// share a single probe; the mutex is held across the probe so only one
// runs at a time.
type Cache struct {
	mu      sync.Mutex
	probe   ProbeFunc
	ttl     time.Duration
	timeout time.Duration

	current *Profile
	now     func() time.Time
}

// NewCache builds a cache around probe with the given TTL and per-probe
// timeout. A nil probe uses the real prober.
func NewCache(probe ProbeFunc, ttl, timeout time.Duration) *Cache {
	if probe == nil {
		probe = Probe
	}
	return &Cache{
		probe:   probe,
		ttl:     ttl,
		timeout: timeout,
		now:     time.Now,
	}
}

// Current returns the cached profile, refreshing it when the snapshot is
// older than the TTL or absent.
func (c *Cache) Current(ctx context.Context) *Profile {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.now().Sub(c.current.CapturedAt) < c.ttl {
		return c.current
	}
	c.current = c.probe(ctx, c.timeout)
	return c.current
}

// Invalidate drops the cached snapshot so the next Current probes fresh.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}
