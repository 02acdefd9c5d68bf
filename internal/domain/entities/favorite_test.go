package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortFavorites_OrderThenCreatedAtThenID(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	favorites := []*Favorite{
		{ID: "c", Order: 2, CreatedAt: base},
		{ID: "b", Order: 1, CreatedAt: base.Add(time.Minute)},
		{ID: "a", Order: 1, CreatedAt: base},
		{ID: "e", Order: 1, CreatedAt: base.Add(time.Minute)},
	}

	SortFavorites(favorites)

	ids := make([]string, len(favorites))
	for i, f := range favorites {
		ids[i] = f.ID
	}
	assert.Equal(t, []string{"a", "b", "e", "c"}, ids)
}

func TestNextOrder_IgnoresDeletedFavorites(t *testing.T) {
	assert.Equal(t, 0, NextOrder(nil))
	assert.Equal(t, 4, NextOrder([]*Favorite{
		{Order: 3},
		{Order: 1},
		{Order: 9, IsDeleted: true},
	}))
}

func TestNewFavoriteToggledEvent(t *testing.T) {
	fav := &Favorite{ID: "fav-1", UserID: "user-1", TourID: "tour-1"}
	added := NewFavoriteToggledEvent(fav)
	assert.Equal(t, FavoriteEventTypeAdded, added.Type)
	assert.NotEmpty(t, added.ID)

	fav.IsDeleted = true
	removed := NewFavoriteToggledEvent(fav)
	assert.Equal(t, FavoriteEventTypeRemoved, removed.Type)
	assert.True(t, removed.IsDeleted)
}

func TestNewFavoritesReorderedEvent_CopiesIDs(t *testing.T) {
	ids := []string{"a", "b"}
	event := NewFavoritesReorderedEvent("user-1", ids)
	ids[0] = "z"

	assert.Equal(t, []string{"a", "b"}, event.FavoriteIDs)
	assert.Equal(t, FavoriteEventTypeReordered, event.Type)
}
