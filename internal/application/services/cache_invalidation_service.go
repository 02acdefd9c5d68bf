package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/providers"
)

// CacheInvalidationService evicts favorite status entries when any instance
// reports a favorite change.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelFavoriteUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to favorite updates: %w", err)
	}

	s.started = true
	go s.processEvents(eventChan)
	log.Info().Msg("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service and waits for the worker to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	if s.started {
		<-s.done
	}
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.FavoriteEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent evicts the status entry touched by a single event
func (s *CacheInvalidationService) handleEvent(event *entities.FavoriteEvent) {
	if event.Type == entities.FavoriteEventTypeReordered || event.TourID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := providers.FavoriteStatusKey(event.UserID, event.TourID)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Str("event_id", event.ID).Msg("Failed to invalidate favorite status")
		return
	}
	log.Debug().Str("key", key).Str("event_type", string(event.Type)).Msg("Invalidated favorite status")
}

// InvalidateStatus evicts the cached status of a (user, tour) pair
func (s *CacheInvalidationService) InvalidateStatus(ctx context.Context, userID, tourID string) error {
	if err := s.cache.Delete(ctx, providers.FavoriteStatusKey(userID, tourID)); err != nil {
		return fmt.Errorf("failed to invalidate favorite status: %w", err)
	}
	return nil
}
