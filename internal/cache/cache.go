// Package cache holds computed team profiles for the lifetime of a session.
// The owner decides when entries go stale; nothing here expires on its own.
package cache

import (
	"sync"

	"github.com/pable/go-tactics/internal/aggregator"
)

// Cache maps team names to computed profiles. It is safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	profiles map[string]*aggregator.TacticalProfile
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{profiles: make(map[string]*aggregator.TacticalProfile)}
}

// Get returns the cached profile for team.
func (c *Cache) Get(team string) (*aggregator.TacticalProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.profiles[team]
	return p, ok
}

// Put stores p for team, replacing any previous entry.
func (c *Cache) Put(team string, p *aggregator.TacticalProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[team] = p
}

// Invalidate drops the given teams, or every entry when called without arguments.
func (c *Cache) Invalidate(teams ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(teams) == 0 {
		clear(c.profiles)
		return
	}
	for _, t := range teams {
		delete(c.profiles, t)
	}
}

// Len returns the number of cached profiles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.profiles)
}

// GetOrBuild returns the cached profile for team, calling build and caching
// its result on a miss. Errors are returned as is and never cached.
func (c *Cache) GetOrBuild(team string, build func() (*aggregator.TacticalProfile, error)) (*aggregator.TacticalProfile, error) {
	if p, ok := c.Get(team); ok {
		return p, nil
	}
	p, err := build()
	if err != nil {
		return nil, err
	}
	c.Put(team, p)
	return p, nil
}
