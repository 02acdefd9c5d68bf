package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/tourbooking/backend/internal/domain/providers"
)

type countingCache struct {
	calls int
	err   error
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []byte("true"), nil
}

func (c *countingCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.calls++
	return c.err
}

func (c *countingCache) Delete(ctx context.Context, keys ...string) error {
	c.calls++
	return c.err
}

func TestBreakerCache_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &countingCache{err: errors.New("connection refused")}
	cache := NewBreakerCache(next, BreakerConfig{Name: "test", FailureThreshold: 3, OpenTimeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cache.Get(ctx, "k")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, cache.State())

	err := cache.Set(ctx, "k", []byte("true"), 10)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls)
}

func TestBreakerCache_MissesDoNotTrip(t *testing.T) {
	next := &countingCache{err: providers.ErrCacheMiss}
	cache := NewBreakerCache(next, BreakerConfig{Name: "test", FailureThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 5; i++ {
		_, err := cache.Get(context.Background(), "k")
		assert.ErrorIs(t, err, providers.ErrCacheMiss)
	}
	assert.Equal(t, gobreaker.StateClosed, cache.State())
}

func TestBreakerCache_PassesValuesThrough(t *testing.T) {
	next := &countingCache{}
	cache := NewBreakerCache(next, BreakerConfig{Name: "test"})

	value, err := cache.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("true"), value)
	require.NoError(t, cache.Delete(context.Background(), "k"))
}
