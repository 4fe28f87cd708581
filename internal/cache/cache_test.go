// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

func TestNoOp(t *testing.T) {
	c := NewNoOp()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Hour))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.NoError(t, c.Close())
}

func TestMemory(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "forever", "a", 0))
	require.NoError(t, c.Set(ctx, "short", "b", time.Minute))

	v, ok, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx, "short")
	assert.False(t, ok)

	v, ok, _ = c.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, 1, c.Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("gpt-4o-mini", "page"), Key("gpt-4o-mini", "page"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.Len(t, Key("x"), 64)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, types.CacheConfig{Provider: "none"})
	require.NoError(t, err)
	assert.IsType(t, &NoOp{}, c)

	c, err = New(ctx, types.CacheConfig{Provider: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = New(ctx, types.CacheConfig{Provider: "redis", RedisURL: "http://localhost:6379"})
	assert.ErrorContains(t, err, "parsing redis url")

	_, err = New(ctx, types.CacheConfig{Provider: "memcached"})
	assert.Error(t, err)
}

func TestMockCacheSatisfiesInterface(t *testing.T) {
	m := new(MockCache)
	m.On("Get", context.Background(), "k").Return("v", true, nil)

	var c Cache = m
	v, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	m.AssertExpectations(t)
}
