package resolvers_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/tourbooking/backend/internal/adapters/events"
	"github.com/zatekoja/tourbooking/backend/internal/adapters/memory"
	"github.com/zatekoja/tourbooking/backend/internal/application/services"
	"github.com/zatekoja/tourbooking/backend/internal/auth"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/loaders"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/resolvers"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/scalars"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/schema"
)

const favoriteFields = `
	id
	isDeleted
	order
	createdAt
	updatedAt
	user { id email name }
	tour { id title location price imageUrl }
`

const toggleMutation = `mutation($tourId: ID!) {
	toggleFavorite(tourId: $tourId) { success message favorite {` + favoriteFields + `} }
}`

const addMutation = `mutation($tourId: ID!) {
	addToFavorites(tourId: $tourId) { success message favorite { id tour { id } } }
}`

const removeMutation = `mutation($tourId: ID!) {
	removeFromFavorites(tourId: $tourId) { success message favorite { id } }
}`

const isFavoriteQuery = `query($tourId: ID!) { isFavorite(tourId: $tourId) }`

const listQuery = `query($limit: Int, $offset: Int) {
	getFavorites(limit: $limit, offset: $offset) { success message total favorites { id order tour { id title } } }
}`

const reorderMutation = `mutation($ids: [ID!]!) {
	reorderFavorites(favoriteIds: $ids) { success message favorites { id tour { id } } }
}`

const tourFavoritesQuery = `query($tourId: ID!) {
	getTourFavorites(tourId: $tourId) { success message total favorites { id user { id email } } }
}`

type gqlUser struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type gqlTour struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Location *string  `json:"location"`
	Price    *float64 `json:"price"`
	ImageURL *string  `json:"imageUrl"`
}

type gqlFavorite struct {
	ID        string  `json:"id"`
	IsDeleted *bool   `json:"isDeleted"`
	Order     *int    `json:"order"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	User      gqlUser `json:"user"`
	Tour      gqlTour `json:"tour"`
}

type gqlFavoriteResponse struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	Favorite *gqlFavorite `json:"favorite"`
}

type gqlListResponse struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Total     int           `json:"total"`
	Favorites []gqlFavorite `json:"favorites"`
}

type harness struct {
	schema *graphql.Schema
	tours  *memory.TourRepository
	users  *memory.UserRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tours := memory.NewTourRepository(memory.FixtureTours()...)
	users := memory.NewUserRepository(memory.FixtureUsers()...)
	bus := events.NewLocalEventBus()
	t.Cleanup(func() { bus.Close() })

	service := services.NewFavoriteService(memory.NewFavoriteRepository(), tours, nil, bus, services.FavoriteServiceConfig{}, nil)
	return &harness{
		schema: schema.MustParse(resolvers.NewResolver(service, tours, users)),
		tours:  tours,
		users:  users,
	}
}

func (h *harness) ctxFor(p *auth.Principal) context.Context {
	ctx := loaders.WithLoaders(context.Background(), loaders.NewLoaders(h.tours, h.users))
	if p != nil {
		ctx = auth.WithPrincipal(ctx, p)
	}
	return ctx
}

func (h *harness) exec(t *testing.T, p *auth.Principal, query string, vars map[string]interface{}, out interface{}) *graphql.Response {
	t.Helper()
	resp := h.schema.Exec(h.ctxFor(p), query, "", vars)
	if len(resp.Errors) == 0 && out != nil {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return resp
}

var (
	demo  = &auth.Principal{UserID: "user-demo", Email: "demo@tourbooking.example.com", Role: "user"}
	admin = &auth.Principal{UserID: "user-admin", Email: "admin@tourbooking.example.com", Role: "admin"}
)

func TestToggleFavorite_RoundTrip(t *testing.T) {
	h := newHarness(t)
	vars := map[string]interface{}{"tourId": "tour-lisbon-food"}

	// Act: add
	var added struct {
		ToggleFavorite gqlFavoriteResponse `json:"toggleFavorite"`
	}
	resp := h.exec(t, demo, toggleMutation, vars, &added)
	require.Empty(t, resp.Errors)

	// Assert
	got := added.ToggleFavorite
	assert.True(t, got.Success)
	assert.Equal(t, "Added to favorites", got.Message)
	require.NotNil(t, got.Favorite)
	assert.False(t, *got.Favorite.IsDeleted)
	assert.Equal(t, 0, *got.Favorite.Order)
	assert.Equal(t, "Lisbon Food Walk", got.Favorite.Tour.Title)
	assert.Equal(t, "Lisbon, Portugal", *got.Favorite.Tour.Location)
	assert.Equal(t, 65.0, *got.Favorite.Tour.Price)
	assert.Equal(t, "demo@tourbooking.example.com", got.Favorite.User.Email)
	assert.Equal(t, "Demo Traveller", *got.Favorite.User.Name)
	createdAt, err := scalars.ParseDateTime(got.Favorite.CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, createdAt.Location())

	var status struct {
		IsFavorite bool `json:"isFavorite"`
	}
	h.exec(t, demo, isFavoriteQuery, vars, &status)
	assert.True(t, status.IsFavorite)

	// Act: remove
	var removed struct {
		ToggleFavorite gqlFavoriteResponse `json:"toggleFavorite"`
	}
	h.exec(t, demo, toggleMutation, vars, &removed)
	assert.Equal(t, "Removed from favorites", removed.ToggleFavorite.Message)
	assert.True(t, *removed.ToggleFavorite.Favorite.IsDeleted)
	assert.Equal(t, got.Favorite.ID, removed.ToggleFavorite.Favorite.ID)

	h.exec(t, demo, isFavoriteQuery, vars, &status)
	assert.False(t, status.IsFavorite)
}

func TestToggleFavorite_NullableTourFields(t *testing.T) {
	h := newHarness(t)

	var out struct {
		ToggleFavorite gqlFavoriteResponse `json:"toggleFavorite"`
	}
	h.exec(t, demo, toggleMutation, map[string]interface{}{"tourId": "tour-cairo-pyramids"}, &out)

	require.NotNil(t, out.ToggleFavorite.Favorite)
	assert.Nil(t, out.ToggleFavorite.Favorite.Tour.Price)
	assert.Nil(t, out.ToggleFavorite.Favorite.Tour.ImageURL)
}

func TestMutations_BusinessRuleFailuresAreResults(t *testing.T) {
	h := newHarness(t)

	var missing struct {
		ToggleFavorite gqlFavoriteResponse `json:"toggleFavorite"`
	}
	resp := h.exec(t, demo, toggleMutation, map[string]interface{}{"tourId": "tour-venice-gondola"}, &missing)
	require.Empty(t, resp.Errors)
	assert.False(t, missing.ToggleFavorite.Success)
	assert.Equal(t, "Tour not found", missing.ToggleFavorite.Message)
	assert.Nil(t, missing.ToggleFavorite.Favorite)

	vars := map[string]interface{}{"tourId": "tour-kyoto-temples"}
	var first, second struct {
		AddToFavorites gqlFavoriteResponse `json:"addToFavorites"`
	}
	h.exec(t, demo, addMutation, vars, &first)
	h.exec(t, demo, addMutation, vars, &second)
	assert.True(t, first.AddToFavorites.Success)
	assert.False(t, second.AddToFavorites.Success)
	assert.Equal(t, "Tour is already in favorites", second.AddToFavorites.Message)
	assert.Equal(t, first.AddToFavorites.Favorite.ID, second.AddToFavorites.Favorite.ID)

	var notSaved struct {
		RemoveFromFavorites gqlFavoriteResponse `json:"removeFromFavorites"`
	}
	h.exec(t, demo, removeMutation, map[string]interface{}{"tourId": "tour-patagonia-trek"}, &notSaved)
	assert.False(t, notSaved.RemoveFromFavorites.Success)
	assert.Equal(t, "Tour is not in favorites", notSaved.RemoveFromFavorites.Message)
	assert.Nil(t, notSaved.RemoveFromFavorites.Favorite)
}

func TestAnonymousCaller(t *testing.T) {
	h := newHarness(t)

	var status struct {
		IsFavorite bool `json:"isFavorite"`
	}
	resp := h.exec(t, nil, isFavoriteQuery, map[string]interface{}{"tourId": "tour-lisbon-food"}, &status)
	require.Empty(t, resp.Errors)
	assert.False(t, status.IsFavorite)

	resp = h.exec(t, nil, listQuery, nil, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "UNAUTHORIZED", resp.Errors[0].Extensions["code"])

	resp = h.exec(t, nil, toggleMutation, map[string]interface{}{"tourId": "tour-lisbon-food"}, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "UNAUTHORIZED", resp.Errors[0].Extensions["code"])
}

func TestGetFavorites_OrderAndReorder(t *testing.T) {
	h := newHarness(t)
	for _, id := range []string{"tour-lisbon-food", "tour-kyoto-temples", "tour-patagonia-trek"} {
		resp := h.exec(t, demo, addMutation, map[string]interface{}{"tourId": id}, nil)
		require.Empty(t, resp.Errors)
	}

	var list struct {
		GetFavorites gqlListResponse `json:"getFavorites"`
	}
	h.exec(t, demo, listQuery, nil, &list)
	require.Equal(t, 3, list.GetFavorites.Total)
	assert.Equal(t, "Favorites retrieved successfully", list.GetFavorites.Message)
	assert.Equal(t, []string{"tour-lisbon-food", "tour-kyoto-temples", "tour-patagonia-trek"}, tourIDs(list.GetFavorites.Favorites))

	favs := list.GetFavorites.Favorites
	reversed := []interface{}{favs[2].ID, favs[1].ID, favs[0].ID}

	var reordered struct {
		ReorderFavorites gqlListResponse `json:"reorderFavorites"`
	}
	resp := h.exec(t, demo, reorderMutation, map[string]interface{}{"ids": reversed}, &reordered)
	require.Empty(t, resp.Errors)
	assert.True(t, reordered.ReorderFavorites.Success)
	assert.Equal(t, "Favorites reordered successfully", reordered.ReorderFavorites.Message)
	assert.Equal(t, []string{"tour-patagonia-trek", "tour-kyoto-temples", "tour-lisbon-food"}, tourIDs(reordered.ReorderFavorites.Favorites))

	var page struct {
		GetFavorites gqlListResponse `json:"getFavorites"`
	}
	h.exec(t, demo, listQuery, map[string]interface{}{"limit": float64(1), "offset": float64(1)}, &page)
	assert.Equal(t, 3, page.GetFavorites.Total)
	assert.Equal(t, []string{"tour-kyoto-temples"}, tourIDs(page.GetFavorites.Favorites))
}

func TestReorderFavorites_Mismatch(t *testing.T) {
	h := newHarness(t)
	h.exec(t, demo, addMutation, map[string]interface{}{"tourId": "tour-lisbon-food"}, nil)

	var out struct {
		ReorderFavorites gqlListResponse `json:"reorderFavorites"`
	}
	ids := []interface{}{"3f1c1d2e-0a4b-4c5d-8e6f-7a8b9c0d1e2f"}
	resp := h.exec(t, demo, reorderMutation, map[string]interface{}{"ids": ids}, &out)
	require.Empty(t, resp.Errors)
	assert.False(t, out.ReorderFavorites.Success)
	assert.Equal(t, "Favorite IDs do not match your favorites", out.ReorderFavorites.Message)
	assert.Equal(t, []string{"tour-lisbon-food"}, tourIDs(out.ReorderFavorites.Favorites))
}

func TestGetTourFavorites_AdminOnly(t *testing.T) {
	h := newHarness(t)
	h.exec(t, demo, addMutation, map[string]interface{}{"tourId": "tour-lisbon-food"}, nil)
	h.exec(t, admin, addMutation, map[string]interface{}{"tourId": "tour-lisbon-food"}, nil)
	vars := map[string]interface{}{"tourId": "tour-lisbon-food"}

	resp := h.exec(t, demo, tourFavoritesQuery, vars, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "UNAUTHORIZED", resp.Errors[0].Extensions["code"])

	var out struct {
		GetTourFavorites gqlListResponse `json:"getTourFavorites"`
	}
	resp = h.exec(t, admin, tourFavoritesQuery, vars, &out)
	require.Empty(t, resp.Errors)
	assert.Equal(t, 2, out.GetTourFavorites.Total)
	assert.ElementsMatch(t,
		[]string{"demo@tourbooking.example.com", "admin@tourbooking.example.com"},
		[]string{out.GetTourFavorites.Favorites[0].User.Email, out.GetTourFavorites.Favorites[1].User.Email})
}

func TestFavoriteUser_FallsBackToCallerClaims(t *testing.T) {
	h := newHarness(t)
	stranger := &auth.Principal{UserID: "user-external", Email: "guest@partner.example.com", Role: "user"}

	var out struct {
		ToggleFavorite gqlFavoriteResponse `json:"toggleFavorite"`
	}
	resp := h.exec(t, stranger, toggleMutation, map[string]interface{}{"tourId": "tour-lisbon-food"}, &out)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "user-external", out.ToggleFavorite.Favorite.User.ID)
	assert.Equal(t, "guest@partner.example.com", out.ToggleFavorite.Favorite.User.Email)
	assert.Nil(t, out.ToggleFavorite.Favorite.User.Name)
}

func tourIDs(favorites []gqlFavorite) []string {
	ids := make([]string, len(favorites))
	for i, f := range favorites {
		ids[i] = f.Tour.ID
	}
	return ids
}
