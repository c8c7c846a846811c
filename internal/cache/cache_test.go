package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-tactics/internal/aggregator"
)

func TestCache_GetPutInvalidate(t *testing.T) {
	c := New()
	_, ok := c.Get("Alpha")
	assert.False(t, ok)

	a := &aggregator.TacticalProfile{Team: "Alpha"}
	b := &aggregator.TacticalProfile{Team: "Beta"}
	c.Put("Alpha", a)
	c.Put("Beta", b)
	assert.Equal(t, 2, c.Len())

	got, ok := c.Get("Alpha")
	require.True(t, ok)
	assert.Same(t, a, got)

	c.Invalidate("Alpha")
	_, ok = c.Get("Alpha")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Invalidate()
	assert.Equal(t, 0, c.Len())
}

func TestCache_GetOrBuild(t *testing.T) {
	c := New()
	calls := 0
	build := func() (*aggregator.TacticalProfile, error) {
		calls++
		return &aggregator.TacticalProfile{Team: "Alpha"}, nil
	}

	p1, err := c.GetOrBuild("Alpha", build)
	require.NoError(t, err)
	p2, err := c.GetOrBuild("Alpha", build)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Equal(t, 1, calls)

	_, err = c.GetOrBuild("Beta", func() (*aggregator.TacticalProfile, error) {
		return nil, aggregator.ErrNoData
	})
	assert.True(t, errors.Is(err, aggregator.ErrNoData))
	_, ok := c.Get("Beta")
	assert.False(t, ok, "errors are not cached")
}

func TestCache_Concurrent(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			team := fmt.Sprintf("T%d", i%4)
			c.Put(team, &aggregator.TacticalProfile{Team: team})
			c.Get(team)
			c.Len()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())
}
