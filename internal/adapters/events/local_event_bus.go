package events

import (
	"context"
	"sync"

	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/providers"
)

// LocalEventBus delivers events to subscribers in the same process. It backs
// single-instance deployments that run without Redis.
type LocalEventBus struct {
	hub    *hub
	mu     sync.Mutex
	closed bool
}

// NewLocalEventBus creates an in-process event bus
func NewLocalEventBus() providers.EventBus {
	return &LocalEventBus{hub: newHub()}
}

// Publish delivers the event to current subscribers of channel
func (b *LocalEventBus) Publish(ctx context.Context, channel string, event *entities.FavoriteEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.hub.broadcast(channel, event)
	return nil
}

// Subscribe subscribes to events on a channel until ctx is done
func (b *LocalEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.FavoriteEvent, error) {
	b.mu.Lock()
	eventChan, _ := b.hub.add(channel)
	if b.closed {
		b.hub.remove(channel, eventChan)
	}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		b.hub.remove(channel, eventChan)
	}()

	return eventChan, nil
}

// Close closes every subscription
func (b *LocalEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for _, channel := range b.hub.channels() {
		b.hub.closeChannel(channel)
	}
	return nil
}
