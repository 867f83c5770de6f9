package dashboard

import (
	"context"
	"sync"

	"github.com/albapepper/shotmap/internal/provider"
)

// LoadFunc produces the dashboard's shot data.
type LoadFunc func(ctx context.Context) ([]provider.Shot, error)

// DataCache memoizes the result of a LoadFunc until Invalidate is called.
// Failed loads are not cached.
type DataCache struct {
	mu            sync.Mutex
	load          LoadFunc
	data          []provider.Shot
	loaded        bool
	loads         int
	invalidations int
}

// NewDataCache wraps load.
func NewDataCache(load LoadFunc) *DataCache {
	return &DataCache{load: load}
}

// Get returns the memoized data, loading it on first use. Concurrent
// callers wait for a single load.
func (c *DataCache) Get(ctx context.Context) ([]provider.Shot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.data, nil
	}
	data, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.data = data
	c.loaded = true
	c.loads++
	return c.data, nil
}

// Invalidate drops the memoized data so the next Get reloads.
func (c *DataCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	c.loaded = false
	c.invalidations++
}

// CacheStats reports DataCache activity.
type CacheStats struct {
	Loaded        bool `json:"loaded"`
	Rows          int  `json:"rows"`
	Loads         int  `json:"loads"`
	Invalidations int  `json:"invalidations"`
}

// Stats returns a snapshot of cache activity.
func (c *DataCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Loaded:        c.loaded,
		Rows:          len(c.data),
		Loads:         c.loads,
		Invalidations: c.invalidations,
	}
}
