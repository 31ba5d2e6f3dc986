package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestAside_MissFetchesAndStores(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var out cachedThing
	err := Aside(ctx, "thing:1", &out, time.Minute, func() error {
		fetches++
		out = cachedThing{Name: "first", Count: 7}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "first", out.Name)
	assert.True(t, mr.Exists("thing:1"))

	// Second call is served from the cache without hitting fetch.
	var again cachedThing
	err = Aside(ctx, "thing:1", &again, time.Minute, func() error {
		fetches++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, cachedThing{Name: "first", Count: 7}, again)
}

func TestAside_InvalidateForcesRefetch(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	var out cachedThing
	require.NoError(t, Aside(ctx, "thing:2", &out, time.Minute, func() error {
		out = cachedThing{Name: "stale"}
		return nil
	}))
	require.True(t, mr.Exists("thing:2"))

	Invalidate(ctx, "thing:2")
	assert.False(t, mr.Exists("thing:2"))

	err := Aside(ctx, "thing:2", &out, time.Minute, func() error {
		out = cachedThing{Name: "fresh"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", out.Name)
}

func TestAside_ExpiredEntryRefetches(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	var out cachedThing
	require.NoError(t, Aside(ctx, "thing:3", &out, time.Second, func() error {
		out = cachedThing{Name: "old"}
		return nil
	}))

	mr.FastForward(2 * time.Second)

	err := Aside(ctx, "thing:3", &out, time.Second, func() error {
		out = cachedThing{Name: "new"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", out.Name)
}

func TestAside_NilClientFallsThrough(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var out cachedThing
	for i := 0; i < 2; i++ {
		err := Aside(ctx, "thing:4", &out, time.Minute, func() error {
			fetches++
			out = cachedThing{Name: "direct"}
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, fetches)
	assert.Equal(t, "direct", out.Name)
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	var out cachedThing
	err := Aside(ctx, "thing:5", &out, time.Minute, func() error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, mr.Exists("thing:5"))
}

func TestInvalidateUser(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(42), cachedThing{Name: "u"}, UserTTL))
	require.True(t, mr.Exists("user:42"))

	InvalidateUser(ctx, 42)
	assert.False(t, mr.Exists("user:42"))
}
