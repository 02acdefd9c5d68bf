package entities

import (
	"sort"
	"time"
)

// Favorite is a user's saved tour. There is at most one row per (user, tour);
// removing a favorite only flips IsDeleted.
type Favorite struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	TourID    string    `json:"tour_id" db:"tour_id"`
	IsDeleted bool      `json:"is_deleted" db:"is_deleted"`
	Order     int       `json:"order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the favorite is currently saved
func (f *Favorite) IsActive() bool {
	return !f.IsDeleted
}

// Clone returns a copy that can be mutated without affecting f
func (f *Favorite) Clone() *Favorite {
	c := *f
	return &c
}

// FavoriteLess orders favorites for display: by Order, then creation time,
// then ID so that the order is total.
func FavoriteLess(a, b *Favorite) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// SortFavorites sorts favorites in display order
func SortFavorites(favorites []*Favorite) {
	sort.SliceStable(favorites, func(i, j int) bool {
		return FavoriteLess(favorites[i], favorites[j])
	})
}

// NextOrder returns the order value that appends a favorite after every
// active favorite in the list.
func NextOrder(favorites []*Favorite) int {
	next := 0
	for _, f := range favorites {
		if f.IsActive() && f.Order >= next {
			next = f.Order + 1
		}
	}
	return next
}
