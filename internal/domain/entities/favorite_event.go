package entities

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteEventType represents the type of favorite event
type FavoriteEventType string

const (
	FavoriteEventTypeAdded     FavoriteEventType = "favorite_added"
	FavoriteEventTypeRemoved   FavoriteEventType = "favorite_removed"
	FavoriteEventTypeReordered FavoriteEventType = "favorites_reordered"
)

// FavoriteEvent announces a change to a user's favorites
type FavoriteEvent struct {
	ID          string            `json:"id"`
	Type        FavoriteEventType `json:"type"`
	UserID      string            `json:"user_id"`
	TourID      string            `json:"tour_id,omitempty"`
	FavoriteID  string            `json:"favorite_id,omitempty"`
	IsDeleted   bool              `json:"is_deleted"`
	FavoriteIDs []string          `json:"favorite_ids,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// NewFavoriteToggledEvent describes the state of a favorite after it was
// added, removed or toggled.
func NewFavoriteToggledEvent(favorite *Favorite) *FavoriteEvent {
	eventType := FavoriteEventTypeAdded
	if favorite.IsDeleted {
		eventType = FavoriteEventTypeRemoved
	}
	return &FavoriteEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     favorite.UserID,
		TourID:     favorite.TourID,
		FavoriteID: favorite.ID,
		IsDeleted:  favorite.IsDeleted,
		Timestamp:  time.Now().UTC(),
	}
}

// NewFavoritesReorderedEvent describes a new favorite order for a user
func NewFavoritesReorderedEvent(userID string, favoriteIDs []string) *FavoriteEvent {
	ids := make([]string, len(favoriteIDs))
	copy(ids, favoriteIDs)
	return &FavoriteEvent{
		ID:          uuid.NewString(),
		Type:        FavoriteEventTypeReordered,
		UserID:      userID,
		FavoriteIDs: ids,
		Timestamp:   time.Now().UTC(),
	}
}
