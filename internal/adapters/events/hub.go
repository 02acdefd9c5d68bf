package events

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
)

const subscriberBuffer = 100

// hub fans events out to the local subscribers of each channel
type hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.FavoriteEvent]struct{}
}

func newHub() *hub {
	return &hub{subscribers: make(map[string]map[chan *entities.FavoriteEvent]struct{})}
}

// add registers a new subscriber and reports whether it is the first one on
// the channel.
func (h *hub) add(channel string) (chan *entities.FavoriteEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	first := false
	if h.subscribers[channel] == nil {
		h.subscribers[channel] = make(map[chan *entities.FavoriteEvent]struct{})
		first = true
	}

	eventChan := make(chan *entities.FavoriteEvent, subscriberBuffer)
	h.subscribers[channel][eventChan] = struct{}{}
	return eventChan, first
}

// remove unregisters a subscriber and reports whether the channel has no
// subscribers left.
func (h *hub) remove(channel string, eventChan chan *entities.FavoriteEvent) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, exists := h.subscribers[channel]
	if !exists {
		return false
	}
	if _, ok := subscribers[eventChan]; !ok {
		return false
	}

	delete(subscribers, eventChan)
	close(eventChan)

	if len(subscribers) == 0 {
		delete(h.subscribers, channel)
		return true
	}
	return false
}

// closeChannel closes every subscriber of channel
func (h *hub) closeChannel(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for subscriber := range h.subscribers[channel] {
		close(subscriber)
	}
	delete(h.subscribers, channel)
}

func (h *hub) channels() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	channels := make([]string, 0, len(h.subscribers))
	for channel := range h.subscribers {
		channels = append(channels, channel)
	}
	return channels
}

func (h *hub) broadcast(channel string, event *entities.FavoriteEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for subscriber := range h.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("Subscriber channel full, skipping event")
		}
	}
}
