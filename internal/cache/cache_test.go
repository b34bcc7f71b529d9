// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func completedResult(id string) *types.QueryResult {
	return &types.QueryResult{
		QueryID: id,
		Status:  types.StatusCompleted,
		Literature: types.LiteratureResult{
			Sources:      []types.Source{{ID: "10.1000/1", Title: "A Study"}},
			TotalResults: 1,
		},
	}
}

func TestCachePutGet(t *testing.T) {
	clock := newFakeClock()
	c := New(time.Hour, WithClock(clock.now))

	c.Put("fp1", completedResult("q1"))

	got, ok := c.Get("fp1")
	require.True(t, ok)
	assert.Equal(t, "q1", got.QueryID)
	assert.True(t, got.Metadata.Cached, "cached reads must be marked")
}

func TestCacheGetDoesNotMutateStored(t *testing.T) {
	clock := newFakeClock()
	c := New(time.Hour, WithClock(clock.now))
	c.Put("fp1", completedResult("q1"))

	first, ok := c.Get("fp1")
	require.True(t, ok)
	first.QueryID = "tampered"
	first.Literature.Sources[0].Title = "tampered"

	second, ok := c.Get("fp1")
	require.True(t, ok)
	assert.Equal(t, "q1", second.QueryID, "caller mutations must not leak into the store")
}

func TestCacheExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New(time.Hour, WithClock(clock.now))
	c.Put("fp1", completedResult("q1"))

	clock.advance(59 * time.Minute)
	_, ok := c.Get("fp1")
	assert.True(t, ok, "entry should survive inside the TTL window")

	clock.advance(2 * time.Minute)
	_, ok = c.Get("fp1")
	assert.False(t, ok, "entry should expire after the TTL")
	assert.Equal(t, 0, c.Len())
}

func TestCachePutResetsTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(time.Hour, WithClock(clock.now))
	c.Put("fp1", completedResult("q1"))

	clock.advance(50 * time.Minute)
	c.Put("fp1", completedResult("q2"))

	// 50 more minutes: past the first deadline, inside the second.
	clock.advance(50 * time.Minute)
	got, ok := c.Get("fp1")
	require.True(t, ok)
	assert.Equal(t, "q2", got.QueryID, "overwrite should replace the entry and reset its timer")
}

func TestCachePutSweepsExpired(t *testing.T) {
	clock := newFakeClock()
	c := New(time.Hour, WithClock(clock.now))
	c.Put("old1", completedResult("q1"))
	c.Put("old2", completedResult("q2"))

	clock.advance(2 * time.Hour)
	c.Put("fresh", completedResult("q3"))

	assert.Equal(t, 1, c.Len(), "expired entries are swept on Put")
}

func TestCacheInvalidate(t *testing.T) {
	c := New(time.Hour)
	c.Put("fp1", completedResult("q1"))

	c.Invalidate("fp1")
	_, ok := c.Get("fp1")
	assert.False(t, ok)

	// Invalidating a missing key is a no-op.
	c.Invalidate("missing")
}

func TestCacheDefaultTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(0, WithClock(clock.now))
	c.Put("fp1", completedResult("q1"))

	clock.advance(DefaultTTL - time.Minute)
	_, ok := c.Get("fp1")
	assert.True(t, ok)

	clock.advance(2 * time.Minute)
	_, ok = c.Get("fp1")
	assert.False(t, ok)
}
