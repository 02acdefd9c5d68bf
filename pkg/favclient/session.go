package favclient

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// MaxPageSize is the largest page the server returns
const MaxPageSize = 100

// Session applies favorite changes optimistically to a Store and reconciles
// them with the server. Mutations run one at a time in call order.
type Session struct {
	client *Client
	store  *Store
	writes *semaphore.Weighted
}

// NewSession creates a session. A nil store gets a fresh one.
func NewSession(client *Client, store *Store) *Session {
	if store == nil {
		store = NewStore()
	}
	return &Session{
		client: client,
		store:  store,
		writes: semaphore.NewWeighted(1),
	}
}

// Store returns the session's store
func (s *Session) Store() *Store {
	return s.store
}

// Refresh reloads the whole favorites list from the server, one page at a
// time
func (s *Session) Refresh(ctx context.Context) error {
	limit := MaxPageSize
	var (
		all   []Favorite
		total int
	)
	for {
		offset := len(all)
		list, err := s.client.GetFavorites(ctx, &limit, &offset)
		if err != nil {
			return err
		}
		if !list.Success {
			return fmt.Errorf("get favorites: %s", list.Message)
		}
		all = append(all, list.Favorites...)
		total = list.Total
		if len(list.Favorites) == 0 || len(all) >= total {
			break
		}
	}
	s.store.ReplaceFavorites(all, total)
	return nil
}

// Check asks the server whether a tour is favorited and tracks the tour
func (s *Session) Check(ctx context.Context, tourID string) (bool, error) {
	favorited, err := s.client.IsFavorite(ctx, tourID)
	if err != nil {
		return false, err
	}
	s.store.SetStatus(tourID, favorited)
	return favorited, nil
}

// Toggle flips a tour immediately in the store, then sends toggleFavorite.
// A transport error or an unsuccessful response restores the previous state.
func (s *Session) Toggle(ctx context.Context, tourID string) (*FavoriteResponse, error) {
	token := s.store.BeginToggle(tourID)
	return s.mutate(ctx, token, tourID, s.client.ToggleFavorite)
}

// Add marks a tour favorited immediately, then sends addToFavorites
func (s *Session) Add(ctx context.Context, tourID string) (*FavoriteResponse, error) {
	token := s.store.BeginSet(tourID, true)
	return s.mutate(ctx, token, tourID, s.client.AddToFavorites)
}

// Remove marks a tour not favorited immediately, then sends removeFromFavorites
func (s *Session) Remove(ctx context.Context, tourID string) (*FavoriteResponse, error) {
	token := s.store.BeginSet(tourID, false)
	return s.mutate(ctx, token, tourID, s.client.RemoveFromFavorites)
}

func (s *Session) mutate(ctx context.Context, token uint64, tourID string, send func(context.Context, string) (*FavoriteResponse, error)) (*FavoriteResponse, error) {
	if err := s.writes.Acquire(ctx, 1); err != nil {
		s.store.Rollback(token, tourID)
		return nil, err
	}
	defer s.writes.Release(1)

	resp, err := send(ctx, tourID)
	if err != nil {
		s.store.Rollback(token, tourID)
		// the request may have been applied before it failed
		if ctx.Err() == nil {
			_, _ = s.Check(ctx, tourID)
		}
		return nil, err
	}
	if resp.Favorite == nil {
		s.store.Rollback(token, tourID)
		return resp, nil
	}
	if !resp.Success {
		// the server reports the favorite it kept, so settle on that
		s.store.Commit(token, tourID, !resp.Favorite.IsDeleted)
		return resp, nil
	}

	s.store.Commit(token, tourID, !resp.Favorite.IsDeleted)
	if err := s.reconcile(ctx); err != nil {
		return resp, err
	}
	return resp, nil
}

// reconcile refetches the list when one is loaded and refreshes every
// other tracked tour
func (s *Session) reconcile(ctx context.Context) error {
	snap := s.store.Snapshot()
	if snap.Loaded {
		if err := s.Refresh(ctx); err != nil {
			return fmt.Errorf("refresh favorites: %w", err)
		}
	}

	for _, id := range s.store.TourIDs() {
		if st, _ := s.store.Status(id); st.Pending {
			continue
		}
		if _, err := s.Check(ctx, id); err != nil {
			return fmt.Errorf("refresh %s: %w", id, err)
		}
	}
	return nil
}

// Reorder submits a complete new order and refetches the list on success
func (s *Session) Reorder(ctx context.Context, favoriteIDs []string) (*ReorderResponse, error) {
	if err := s.writes.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.writes.Release(1)

	resp, err := s.client.ReorderFavorites(ctx, favoriteIDs)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return resp, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return resp, fmt.Errorf("refresh favorites: %w", err)
	}
	return resp, nil
}

// Move moves the favorite at position from to position to in the stored
// list and submits the new order
func (s *Session) Move(ctx context.Context, from, to int) (*ReorderResponse, error) {
	ids, err := MoveID(s.store.FavoriteIDs(), from, to)
	if err != nil {
		return nil, err
	}
	return s.Reorder(ctx, ids)
}

// MoveID returns a copy of ids with the element at from moved to to
func MoveID(ids []string, from, to int) ([]string, error) {
	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
		return nil, fmt.Errorf("move %d to %d: index out of range for %d favorites", from, to, len(ids))
	}

	out := make([]string, 0, len(ids))
	moved := ids[from]
	for i, id := range ids {
		if i != from {
			out = append(out, id)
		}
	}
	out = append(out[:to], append([]string{moved}, out[to:]...)...)
	return out, nil
}
