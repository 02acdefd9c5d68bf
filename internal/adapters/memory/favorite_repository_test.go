package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

func insert(t *testing.T, repo *FavoriteRepository, f *entities.Favorite) {
	t.Helper()
	err := repo.WithUserLock(context.Background(), f.UserID, func(ctx context.Context, store repositories.FavoriteStore) error {
		return store.Insert(ctx, f)
	})
	require.NoError(t, err)
}

func TestFavoriteRepository_ListOrderAndPaging(t *testing.T) {
	repo := NewFavoriteRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	insert(t, repo, &entities.Favorite{ID: "c", UserID: "u1", TourID: "t3", Order: 1, CreatedAt: base})
	insert(t, repo, &entities.Favorite{ID: "a", UserID: "u1", TourID: "t1", Order: 0, CreatedAt: base.Add(time.Minute)})
	insert(t, repo, &entities.Favorite{ID: "b", UserID: "u1", TourID: "t2", Order: 1, CreatedAt: base})
	insert(t, repo, &entities.Favorite{ID: "d", UserID: "u1", TourID: "t4", Order: 2, IsDeleted: true, CreatedAt: base})
	insert(t, repo, &entities.Favorite{ID: "e", UserID: "u2", TourID: "t1", Order: 0, CreatedAt: base})

	all, err := repo.ListActiveByUser(context.Background(), "u1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(all))

	page, err := repo.ListActiveByUser(context.Background(), "u1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(page))

	empty, err := repo.ListActiveByUser(context.Background(), "u1", 20, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	count, err := repo.CountActiveByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	byTour, err := repo.ListActiveByTour(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "e"}, ids(byTour))

	ok, err := repo.IsFavorite(context.Background(), "u1", "t4")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavoriteRepository_FailedLockedCallDiscardsWrites(t *testing.T) {
	repo := NewFavoriteRepository()
	insert(t, repo, &entities.Favorite{ID: "a", UserID: "u1", TourID: "t1"})
	boom := errors.New("boom")

	err := repo.WithUserLock(context.Background(), "u1", func(ctx context.Context, store repositories.FavoriteStore) error {
		require.NoError(t, store.ApplyOrder(ctx, "u1", []string{"a"}))
		require.NoError(t, store.UpdateState(ctx, &entities.Favorite{ID: "a", IsDeleted: true}))
		require.NoError(t, store.Insert(ctx, &entities.Favorite{ID: "b", UserID: "u1", TourID: "t2"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := repo.ListActiveByUser(context.Background(), "u1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(all))
}

func TestFavoriteRepository_InsertDuplicateTourConflicts(t *testing.T) {
	repo := NewFavoriteRepository()
	insert(t, repo, &entities.Favorite{ID: "a", UserID: "u1", TourID: "t1"})

	err := repo.WithUserLock(context.Background(), "u1", func(ctx context.Context, store repositories.FavoriteStore) error {
		return store.Insert(ctx, &entities.Favorite{ID: "b", UserID: "u1", TourID: "t1"})
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestFavoriteRepository_ApplyOrderRejectsForeignIDs(t *testing.T) {
	repo := NewFavoriteRepository()
	insert(t, repo, &entities.Favorite{ID: "a", UserID: "u1", TourID: "t1"})
	insert(t, repo, &entities.Favorite{ID: "x", UserID: "u2", TourID: "t1"})

	err := repo.WithUserLock(context.Background(), "u1", func(ctx context.Context, store repositories.FavoriteStore) error {
		return store.ApplyOrder(ctx, "u1", []string{"x", "a"})
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestFavoriteRepository_WithUserLockSerializesSameUser(t *testing.T) {
	repo := NewFavoriteRepository()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.WithUserLock(context.Background(), "u1", func(ctx context.Context, store repositories.FavoriteStore) error {
				active, err := store.ListAllActiveByUser(ctx, "u1")
				if err != nil {
					return err
				}
				return store.Insert(ctx, &entities.Favorite{
					ID:     fmt.Sprintf("fav-%d", i),
					UserID: "u1",
					TourID: fmt.Sprintf("tour-%d", i),
					Order:  entities.NextOrder(active),
				})
			})
		}(i)
	}
	wg.Wait()

	all, err := repo.ListActiveByUser(context.Background(), "u1", 100, 0)
	require.NoError(t, err)
	assert.Len(t, all, 50)
	orders := make(map[int]bool)
	for _, f := range all {
		assert.False(t, orders[f.Order], "order %d assigned twice", f.Order)
		orders[f.Order] = true
	}
}

func TestCatalogueRepositories(t *testing.T) {
	tours := NewTourRepository(FixtureTours()...)
	users := NewUserRepository(FixtureUsers()...)

	tour, err := tours.GetByID(context.Background(), "tour-kyoto-temples")
	require.NoError(t, err)
	assert.Equal(t, "Kyoto Temples at Dawn", tour.Title)

	_, err = tours.GetByID(context.Background(), "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	found, err := users.GetByIDs(context.Background(), []string{"user-admin", "missing"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].IsAdmin())
}

func ids(favorites []*entities.Favorite) []string {
	out := make([]string, len(favorites))
	for i, f := range favorites {
		out[i] = f.ID
	}
	return out
}
