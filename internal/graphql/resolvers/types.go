package resolvers

import (
	"context"

	"github.com/graph-gophers/graphql-go"
	"github.com/zatekoja/tourbooking/backend/internal/auth"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/loaders"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/scalars"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

// FavoriteResolver resolves Favorite
type FavoriteResolver struct {
	favorite *entities.Favorite
	root     *Resolver
}

func (r *Resolver) wrapFavorites(favorites []*entities.Favorite) []*FavoriteResolver {
	out := make([]*FavoriteResolver, len(favorites))
	for i, f := range favorites {
		out[i] = &FavoriteResolver{favorite: f, root: r}
	}
	return out
}

func (f *FavoriteResolver) ID() graphql.ID {
	return graphql.ID(f.favorite.ID)
}

// User resolves the owner of the favorite. Callers whose account is not in
// the users table still see themselves, built from their token claims.
func (f *FavoriteResolver) User(ctx context.Context) (*UserResolver, error) {
	user, err := f.root.loadUser(ctx, f.favorite.UserID)
	if err == nil {
		return &UserResolver{user: user}, nil
	}

	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		if p := auth.FromContext(ctx); p != nil && p.UserID == f.favorite.UserID {
			return &UserResolver{user: &entities.User{ID: p.UserID, Email: p.Email, Role: p.Role}}, nil
		}
	}
	return nil, graphQLError(ctx, "Favorite.user", err)
}

func (f *FavoriteResolver) Tour(ctx context.Context) (*TourResolver, error) {
	tour, err := f.root.loadTour(ctx, f.favorite.TourID)
	if err != nil {
		return nil, graphQLError(ctx, "Favorite.tour", err)
	}
	return &TourResolver{tour: tour}, nil
}

func (f *FavoriteResolver) IsDeleted() *bool {
	v := f.favorite.IsDeleted
	return &v
}

func (f *FavoriteResolver) Order() *int32 {
	v := int32(f.favorite.Order)
	return &v
}

func (f *FavoriteResolver) CreatedAt() string {
	return scalars.FormatDateTime(f.favorite.CreatedAt)
}

func (f *FavoriteResolver) UpdatedAt() string {
	return scalars.FormatDateTime(f.favorite.UpdatedAt)
}

func (r *Resolver) loadTour(ctx context.Context, id string) (*entities.Tour, error) {
	if l := loaders.For(ctx); l != nil {
		return l.LoadTour(ctx, id)
	}
	return r.tourRepo.GetByID(ctx, id)
}

func (r *Resolver) loadUser(ctx context.Context, id string) (*entities.User, error) {
	if l := loaders.For(ctx); l != nil {
		return l.LoadUser(ctx, id)
	}
	users, err := r.userRepo.GetByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.NewNotFoundError("user " + id + " not found")
	}
	return users[0], nil
}

// UserResolver resolves User
type UserResolver struct {
	user *entities.User
}

func (u *UserResolver) ID() graphql.ID { return graphql.ID(u.user.ID) }
func (u *UserResolver) Email() string { return u.user.Email }
func (u *UserResolver) Name() *string { return optionalString(u.user.Name) }

// TourResolver resolves Tour
type TourResolver struct {
	tour *entities.Tour
}

func (t *TourResolver) ID() graphql.ID { return graphql.ID(t.tour.ID) }
func (t *TourResolver) Title() string { return t.tour.Title }
func (t *TourResolver) Location() *string { return optionalString(t.tour.Location) }
func (t *TourResolver) Price() *float64 { return t.tour.Price }
func (t *TourResolver) ImageURL() *string { return optionalString(t.tour.ImageURL) }

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FavoriteResponseResolver resolves FavoriteResponse
type FavoriteResponseResolver struct {
	success  bool
	message  string
	favorite *FavoriteResolver
}

func (r *FavoriteResponseResolver) Success() bool { return r.success }
func (r *FavoriteResponseResolver) Message() string { return r.message }
func (r *FavoriteResponseResolver) Favorite() *FavoriteResolver { return r.favorite }

// FavoritesListResponseResolver resolves FavoritesListResponse
type FavoritesListResponseResolver struct {
	success   bool
	message   string
	favorites []*FavoriteResolver
	total     int
}

func (r *FavoritesListResponseResolver) Success() bool { return r.success }
func (r *FavoritesListResponseResolver) Message() string { return r.message }
func (r *FavoritesListResponseResolver) Favorites() []*FavoriteResolver { return r.favorites }
func (r *FavoritesListResponseResolver) Total() int32 { return int32(r.total) }

// ReorderResponseResolver resolves ReorderResponse
type ReorderResponseResolver struct {
	success   bool
	message   string
	favorites []*FavoriteResolver
}

func (r *ReorderResponseResolver) Success() bool { return r.success }
func (r *ReorderResponseResolver) Message() string { return r.message }
func (r *ReorderResponseResolver) Favorites() []*FavoriteResolver { return r.favorites }
