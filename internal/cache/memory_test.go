package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "board", []byte(`[1,2,3]`), time.Minute))

	got, err := c.Get(ctx, "board")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,2,3]`), got)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "board", []byte("x"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "board")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheGetOrSet(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	calls := 0
	loader := func() ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	}

	got, err := c.GetOrSet(ctx, "board", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)

	got, err = c.GetOrSet(ctx, "board", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)
	assert.Equal(t, 1, calls)
}

func TestMemoryCacheGetOrSetLoaderError(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	boom := errors.New("store down")
	_, err := c.GetOrSet(context.Background(), "board", time.Minute, func() ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
