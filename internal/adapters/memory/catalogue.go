package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

// TourRepository serves tours from process memory
type TourRepository struct {
	mu    sync.RWMutex
	tours map[string]*entities.Tour
}

// NewTourRepository creates a tour repository holding tours
func NewTourRepository(tours ...*entities.Tour) *TourRepository {
	r := &TourRepository{tours: make(map[string]*entities.Tour)}
	r.Put(tours...)
	return r
}

// Put adds or replaces tours
func (r *TourRepository) Put(tours ...*entities.Tour) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tours {
		c := *t
		r.tours[t.ID] = &c
	}
}

// GetByID retrieves a tour by ID
func (r *TourRepository) GetByID(ctx context.Context, id string) (*entities.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tours[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("tour with id %s not found", id))
	}
	c := *t
	return &c, nil
}

// GetByIDs retrieves the known tours among ids
func (r *TourRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tours := make([]*entities.Tour, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.tours[id]; ok {
			c := *t
			tours = append(tours, &c)
		}
	}
	return tours, nil
}

// UserRepository serves users from process memory
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User
}

// NewUserRepository creates a user repository holding users
func NewUserRepository(users ...*entities.User) *UserRepository {
	r := &UserRepository{users: make(map[string]*entities.User)}
	r.Put(users...)
	return r
}

// Put adds or replaces users
func (r *UserRepository) Put(users ...*entities.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range users {
		c := *u
		r.users[u.ID] = &c
	}
}

// GetByIDs retrieves the known users among ids
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entities.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			c := *u
			users = append(users, &c)
		}
	}
	return users, nil
}
