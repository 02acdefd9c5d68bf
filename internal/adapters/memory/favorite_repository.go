package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

// FavoriteRepository keeps favorites in process memory. Writes made under
// WithUserLock are staged and only become visible when fn succeeds.
type FavoriteRepository struct {
	mu        sync.RWMutex
	favorites map[string]*entities.Favorite

	locksMu   sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewFavoriteRepository creates an empty in-memory favorite repository
func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{
		favorites: make(map[string]*entities.Favorite),
		userLocks: make(map[string]*sync.Mutex),
	}
}

var _ repositories.FavoriteRepository = (*FavoriteRepository)(nil)

// ListActiveByUser returns a page of a user's favorites in display order
func (r *FavoriteRepository) ListActiveByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Favorite, error) {
	active := r.activeByUser(userID)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(active) {
		return []*entities.Favorite{}, nil
	}
	end := len(active)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return active[offset:end], nil
}

// CountActiveByUser counts a user's favorites
func (r *FavoriteRepository) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	return len(r.activeByUser(userID)), nil
}

// ListActiveByTour returns every active favorite of a tour, newest first
func (r *FavoriteRepository) ListActiveByTour(ctx context.Context, tourID string) ([]*entities.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Favorite, 0)
	for _, f := range r.favorites {
		if f.TourID == tourID && f.IsActive() {
			result = append(result, f.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// IsFavorite reports whether a user has an active favorite on a tour
func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, tourID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.favorites {
		if f.UserID == userID && f.TourID == tourID {
			return f.IsActive(), nil
		}
	}
	return false, nil
}

// WithUserLock serializes fn with every other locked call for the same user
func (r *FavoriteRepository) WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context, store repositories.FavoriteStore) error) error {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return apperrors.NewInternalError("favorites lock aborted", err)
	}

	store := &stagedStore{userID: userID, rows: r.snapshot(userID)}
	if err := fn(ctx, store); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range store.rows {
		r.favorites[f.ID] = f
	}
	return nil
}

func (r *FavoriteRepository) userLock(userID string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	lock, ok := r.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.userLocks[userID] = lock
	}
	return lock
}

func (r *FavoriteRepository) snapshot(userID string) map[string]*entities.Favorite {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make(map[string]*entities.Favorite)
	for id, f := range r.favorites {
		if f.UserID == userID {
			rows[id] = f.Clone()
		}
	}
	return rows
}

func (r *FavoriteRepository) activeByUser(userID string) []*entities.Favorite {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedActive(r.favorites, userID)
}

func sortedActive(rows map[string]*entities.Favorite, userID string) []*entities.Favorite {
	active := make([]*entities.Favorite, 0)
	for _, f := range rows {
		if f.UserID == userID && f.IsActive() {
			active = append(active, f.Clone())
		}
	}
	entities.SortFavorites(active)
	return active
}

// stagedStore works on a private copy of one user's favorites
type stagedStore struct {
	userID string
	rows   map[string]*entities.Favorite
}

func (s *stagedStore) FindByUserAndTour(ctx context.Context, userID, tourID string) (*entities.Favorite, error) {
	for _, f := range s.rows {
		if f.UserID == userID && f.TourID == tourID {
			return f.Clone(), nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("favorite for tour %s not found", tourID))
}

func (s *stagedStore) ListAllActiveByUser(ctx context.Context, userID string) ([]*entities.Favorite, error) {
	return sortedActive(s.rows, userID), nil
}

func (s *stagedStore) Insert(ctx context.Context, favorite *entities.Favorite) error {
	if favorite.UserID != s.userID {
		return apperrors.NewInternalError(fmt.Sprintf("favorite belongs to user %s, lock held for %s", favorite.UserID, s.userID), nil)
	}
	for _, f := range s.rows {
		if f.ID == favorite.ID || f.TourID == favorite.TourID {
			return apperrors.NewConflictError("Tour is already in favorites")
		}
	}
	s.rows[favorite.ID] = favorite.Clone()
	return nil
}

func (s *stagedStore) UpdateState(ctx context.Context, favorite *entities.Favorite) error {
	existing, ok := s.rows[favorite.ID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("favorite with id %s not found", favorite.ID))
	}
	existing.IsDeleted = favorite.IsDeleted
	existing.Order = favorite.Order
	existing.UpdatedAt = favorite.UpdatedAt
	return nil
}

func (s *stagedStore) ApplyOrder(ctx context.Context, userID string, orderedIDs []string) error {
	for _, id := range orderedIDs {
		f, ok := s.rows[id]
		if !ok || f.UserID != userID {
			return apperrors.NewInternalError(fmt.Sprintf("favorite %s does not belong to user %s", id, userID), nil)
		}
	}

	now := time.Now().UTC()
	for i, id := range orderedIDs {
		s.rows[id].Order = i
		s.rows[id].UpdatedAt = now
	}
	return nil
}
