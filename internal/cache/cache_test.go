package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetSetWithinTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(10*time.Minute, func() time.Time { return now })

	c.Set("FILTERS", []string{"a", "b"})

	now = now.Add(9 * time.Minute)
	got, ok := c.Get("FILTERS")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestGetAfterTTLExpires(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(10*time.Minute, func() time.Time { return now })

	c.Set("FILTERS", 42)

	now = now.Add(10 * time.Minute)
	_, ok := c.Get("FILTERS")
	assert.False(t, ok, "entry at exactly TTL should be expired")
	assert.Equal(t, 0, c.Len(), "expired entry is deleted on read")
}

func TestGetMissing(t *testing.T) {
	c := New(time.Minute)
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestDeleteExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(5*time.Minute, func() time.Time { return now })

	c.Set("old", 1)
	now = now.Add(3 * time.Minute)
	c.Set("fresh", 2)
	now = now.Add(2 * time.Minute)

	removed := c.DeleteExpired()
	assert.Equal(t, 1, removed)

	_, ok := c.Get("fresh")
	assert.True(t, ok)
	_, ok = c.Get("old")
	assert.False(t, ok)
}
