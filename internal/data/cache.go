package data

import (
	"context"
	"sync"
	"time"

	"microgrid-valuation/internal/finance"
	"microgrid-valuation/internal/model"
	"microgrid-valuation/internal/simulation"

	"github.com/google/uuid"
)

// DefaultRunTTL is how long a run stays retrievable after it was stored.
const DefaultRunTTL = time.Hour

// Run is a finished simulation kept for follow-up requests (snapshots, sankey,
// CSV export).
type Run struct {
	Result     *simulation.Result
	Config     model.MicrogridConfig
	Financials finance.Result
}

type cacheEntry struct {
	run       *Run
	expiresAt time.Time
}

// RunCache is an in-memory store of finished runs keyed by run id. A nil
// *RunCache is a valid cache that stores nothing.
type RunCache struct {
	mu    sync.RWMutex
	store map[uuid.UUID]cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewRunCache(ttl time.Duration) *RunCache {
	if ttl <= 0 {
		ttl = DefaultRunTTL
	}
	return &RunCache{
		store: make(map[uuid.UUID]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a run if available and not expired.
func (c *RunCache) Get(id uuid.UUID) (*Run, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.store[id]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.run, true
}

// Set stores a run under its result's RunID.
func (c *RunCache) Set(run *Run) {
	if c == nil || run == nil || run.Result == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[run.Result.RunID] = cacheEntry{run: run, expiresAt: c.now().Add(c.ttl)}
}

func (c *RunCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache.
func (c *RunCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[uuid.UUID]cacheEntry)
}

// evict drops expired entries and returns how many were removed.
func (c *RunCache) evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for id, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, id)
			n++
		}
	}
	return n
}

// Cleanup periodically removes expired entries until ctx is done.
func (c *RunCache) Cleanup(ctx context.Context, every time.Duration) {
	if c == nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evict()
		}
	}
}
