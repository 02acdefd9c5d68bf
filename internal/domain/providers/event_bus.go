package providers

import (
	"context"

	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.FavoriteEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.FavoriteEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelFavoriteUpdates receives every favorite event
	EventChannelFavoriteUpdates = "favorites:updates"

	// EventChannelUserPrefix is the prefix for per-user channels
	EventChannelUserPrefix = "favorites:user:"
)

// GetUserChannel returns the channel name for a user's favorite events
func GetUserChannel(userID string) string {
	return EventChannelUserPrefix + userID
}
