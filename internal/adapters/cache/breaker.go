package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/zatekoja/tourbooking/backend/internal/domain/providers"
)

// BreakerConfig configures the cache circuit breaker
type BreakerConfig struct {
	Name             string
	FailureThreshold int
	OpenTimeout      time.Duration
}

// BreakerCache stops calling the wrapped cache after consecutive failures so
// that an unhealthy Redis adds no latency to requests.
type BreakerCache struct {
	next    providers.CacheProvider
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerCache wraps next with a circuit breaker
func NewBreakerCache(next providers.CacheProvider, cfg BreakerConfig) *BreakerCache {
	threshold := uint32(cfg.FailureThreshold)
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:    cfg.Name,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, providers.ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Cache circuit breaker changed state")
		},
	}

	return &BreakerCache{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// State returns the current breaker state
func (c *BreakerCache) State() gobreaker.State {
	return c.breaker.State()
}

// Get retrieves a value through the breaker
func (c *BreakerCache) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.next.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Set stores a value through the breaker
func (c *BreakerCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.next.Set(ctx, key, value, expirationSeconds)
	})
	return err
}

// Delete removes values through the breaker
func (c *BreakerCache) Delete(ctx context.Context, keys ...string) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.next.Delete(ctx, keys...)
	})
	return err
}
