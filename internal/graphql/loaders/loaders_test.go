package loaders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

type countingTours struct {
	mu     sync.Mutex
	calls  int
	tours  map[string]*entities.Tour
	failed error
}

func (c *countingTours) GetByID(ctx context.Context, id string) (*entities.Tour, error) {
	return nil, errors.New("not used")
}

func (c *countingTours) GetByIDs(ctx context.Context, ids []string) ([]*entities.Tour, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.failed != nil {
		return nil, c.failed
	}
	var out []*entities.Tour
	for _, id := range ids {
		if t, ok := c.tours[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type staticUsers map[string]*entities.User

func (s staticUsers) GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	var out []*entities.User
	for _, id := range ids {
		if u, ok := s[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestLoaders_BatchesTourLoads(t *testing.T) {
	repo := &countingTours{tours: map[string]*entities.Tour{
		"t1": {ID: "t1", Title: "One"},
		"t2": {ID: "t2", Title: "Two"},
	}}
	l := NewLoaders(repo, staticUsers{})
	ctx := context.Background()

	thunk1 := l.TourLoader.Load(ctx, "t1")
	thunk2 := l.TourLoader.Load(ctx, "t2")

	t1, err := thunk1()
	require.NoError(t, err)
	t2, err := thunk2()
	require.NoError(t, err)

	assert.Equal(t, "One", t1.Title)
	assert.Equal(t, "Two", t2.Title)
	assert.Equal(t, 1, repo.calls)
}

func TestLoaders_MissingKeyIsNotFound(t *testing.T) {
	l := NewLoaders(&countingTours{}, staticUsers{"u1": {ID: "u1", Email: "a@b.c"}})
	ctx := context.Background()

	_, err := l.LoadTour(ctx, "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	u, err := l.LoadUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)
}

func TestLoaders_RepositoryErrorFailsEveryKey(t *testing.T) {
	boom := errors.New("db down")
	l := NewLoaders(&countingTours{failed: boom}, staticUsers{})

	_, err := l.LoadTour(context.Background(), "t1")
	assert.ErrorIs(t, err, boom)
}

func TestFor_WithoutLoaders(t *testing.T) {
	assert.Nil(t, For(context.Background()))

	l := NewLoaders(&countingTours{}, staticUsers{})
	assert.Same(t, l, For(WithLoaders(context.Background(), l)))
}
