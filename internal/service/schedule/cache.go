package schedule

import (
	"sync"
	"time"

	"github.com/sportsbuddy/backend/internal/model/games"
)

// Cache is a single-slot, process-wide schedule cache. Refreshes overwrite
// the slot wholesale; concurrent refreshes are last-write-wins, which is
// acceptable because every writer computed the same fixed query set.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	at      time.Time
	payload []games.NormalizedGame

	now func() time.Time
}

// NewCache creates a cache whose entries go stale after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// Get returns the cached payload if the slot is fresh.
func (c *Cache) Get() ([]games.NormalizedGame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.at.IsZero() || c.now().Sub(c.at) >= c.ttl {
		return nil, false
	}
	return append([]games.NormalizedGame(nil), c.payload...), true
}

// Put replaces the slot with a fresh payload.
func (c *Cache) Put(items []games.NormalizedGame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.at = c.now()
	c.payload = append([]games.NormalizedGame(nil), items...)
}
