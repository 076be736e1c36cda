package memcache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tripwizard/pkg/memcache"
)

func TestTTLStore(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }
	store := memcache.NewTTLStore[string](time.Minute).WithClock(clock)

	store.Set("a", "alpha")
	v, ok := store.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "alpha", v)

	_, ok = store.Get("missing")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = store.Get("a")
	assert.False(t, ok, "expired entry must not be returned")
	assert.Zero(t, store.Len())
}

func TestTTLStore_SetRefreshesExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	store := memcache.NewTTLStore[int](time.Minute).WithClock(func() time.Time { return now })

	store.Set("k", 1)
	now = now.Add(50 * time.Second)
	store.Set("k", 2)
	now = now.Add(50 * time.Second)

	v, ok := store.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTLStore_GetAndTouchRefreshesExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	store := memcache.NewTTLStore[int](time.Minute).WithClock(func() time.Time { return now })

	store.Set("k", 1)
	now = now.Add(50 * time.Second)
	_, ok := store.GetAndTouch("k")
	require.True(t, ok)
	now = now.Add(50 * time.Second)

	_, ok = store.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = store.GetAndTouch("k")
	assert.False(t, ok)
}

func TestTTLStore_SweepAndDelete(t *testing.T) {
	now := time.Unix(1000, 0)
	store := memcache.NewTTLStore[int](time.Minute).WithClock(func() time.Time { return now })

	store.Set("old", 1)
	now = now.Add(30 * time.Second)
	store.Set("new", 2)
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	store.Delete("new")
	assert.Zero(t, store.Len())
}

func TestTTLStore_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	store := memcache.NewTTLStore[int](0).WithClock(func() time.Time { return now })

	store.Set("k", 1)
	now = now.Add(24 * 365 * time.Hour)
	_, ok := store.Get("k")
	assert.True(t, ok)
}
