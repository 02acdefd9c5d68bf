package loaders

import (
	"context"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

const batchWait = 2 * time.Millisecond

// Loaders contains the request-scoped dataloaders
type Loaders struct {
	TourLoader *dataloader.Loader[string, *entities.Tour]
	UserLoader *dataloader.Loader[string, *entities.User]
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(tourRepo repositories.TourRepository, userRepo repositories.UserRepository) *Loaders {
	return &Loaders{
		TourLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[*entities.Tour] {
			tours, err := tourRepo.GetByIDs(ctx, keys)

			tourMap := make(map[string]*entities.Tour, len(tours))
			for _, t := range tours {
				tourMap[t.ID] = t
			}
			return collect(keys, tourMap, err, "tour")
		}, dataloader.WithWait[string, *entities.Tour](batchWait)),
		UserLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[*entities.User] {
			users, err := userRepo.GetByIDs(ctx, keys)

			userMap := make(map[string]*entities.User, len(users))
			for _, u := range users {
				userMap[u.ID] = u
			}
			return collect(keys, userMap, err, "user")
		}, dataloader.WithWait[string, *entities.User](batchWait)),
	}
}

// collect maps batch results back onto keys. Missing keys get a NOT_FOUND error.
func collect[V any](keys []string, found map[string]V, err error, kind string) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if err != nil {
			results[i] = &dataloader.Result[V]{Error: err}
		} else if v, ok := found[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Error: apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, key))}
		}
	}
	return results
}

// LoadTour loads a tour through the batch loader
func (l *Loaders) LoadTour(ctx context.Context, id string) (*entities.Tour, error) {
	return l.TourLoader.Load(ctx, id)()
}

// LoadUser loads a user through the batch loader
func (l *Loaders) LoadUser(ctx context.Context, id string) (*entities.User, error) {
	return l.UserLoader.Load(ctx, id)()
}

// For returns the loaders for a given context, or nil when none are attached
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}
