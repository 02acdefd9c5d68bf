package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/zatekoja/tourbooking/backend/internal/application/services"
	"github.com/zatekoja/tourbooking/backend/internal/auth"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/providers"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
)

const defaultHeartbeat = 30 * time.Second

// SSEHandler streams a user's favorite events over Server-Sent Events so that
// every open client of the user can refresh its favorites state.
type SSEHandler struct {
	eventBus  providers.EventBus
	warmer    *services.CacheWarmingService
	heartbeat time.Duration
	clients   map[string]map[chan *entities.FavoriteEvent]bool // channel -> clients
	mu        sync.RWMutex
}

// NewSSEHandler creates a new SSE handler. warmer may be nil.
func NewSSEHandler(eventBus providers.EventBus, warmer *services.CacheWarmingService) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		warmer:    warmer,
		heartbeat: defaultHeartbeat,
		clients:   make(map[string]map[chan *entities.FavoriteEvent]bool),
	}
}

// WithHeartbeat overrides the heartbeat interval
func (h *SSEHandler) WithHeartbeat(d time.Duration) *SSEHandler {
	if d > 0 {
		h.heartbeat = d
	}
	return h
}

// StreamFavorites handles SSE connections for the caller's favorite updates
// GET /api/stream/favorites
func (h *SSEHandler) StreamFavorites(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequireUser(r.Context())
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	logger := observability.LoggerFromContext(r.Context())
	channel := providers.GetUserChannel(principal.UserID)

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		logger.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe to favorites channel")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan *entities.FavoriteEvent, 10)
	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	if h.warmer != nil {
		if _, err := h.warmer.WarmFavoriteStatuses(r.Context(), principal.UserID); err != nil {
			logger.Warn().Err(err).Msg("Failed to warm favorite statuses")
		}
	}

	h.sendEvent(w, "connected", map[string]interface{}{
		"user_id":   principal.UserID,
		"timestamp": time.Now().UTC(),
	})
	flusher.Flush()

	go h.forwardEvents(r.Context(), eventChan, clientChan)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Str("user_id", principal.UserID).Msg("Client disconnected from favorites stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

// forwardEvents forwards events from the event bus to a client channel
func (h *SSEHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.FavoriteEvent, clientChan chan<- *entities.FavoriteEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
				// Client channel full, skip event
			}
		}
	}
}

func (h *SSEHandler) registerClient(channel string, clientChan chan *entities.FavoriteEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.FavoriteEvent]bool)
	}
	h.clients[channel][clientChan] = true
}

func (h *SSEHandler) unregisterClient(channel string, clientChan chan *entities.FavoriteEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[channel]; exists {
		delete(clients, clientChan)
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

// sendEvent sends an SSE event to the client
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// GetClientCount returns the number of connected clients
func (h *SSEHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
