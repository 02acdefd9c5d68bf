package resolvers

import (
	"context"

	"github.com/graph-gophers/graphql-go"
	"github.com/zatekoja/tourbooking/backend/internal/auth"
)

// GetFavorites lists the caller's favorites
func (r *Resolver) GetFavorites(ctx context.Context, args struct {
	Limit  *int32
	Offset *int32
}) (*FavoritesListResponseResolver, error) {
	principal, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	result, err := r.favorites.GetFavorites(ctx, principal.UserID, toInt(args.Limit), toInt(args.Offset))
	if err != nil {
		return nil, graphQLError(ctx, "getFavorites", err)
	}

	return &FavoritesListResponseResolver{
		success:   result.Success,
		message:   result.Message,
		favorites: r.wrapFavorites(result.Favorites),
		total:     result.Total,
	}, nil
}

// IsFavorite answers false for anonymous callers
func (r *Resolver) IsFavorite(ctx context.Context, args struct{ TourID graphql.ID }) (bool, error) {
	principal := auth.FromContext(ctx)
	if principal == nil {
		return false, nil
	}

	ok, err := r.favorites.IsFavorite(ctx, principal.UserID, string(args.TourID))
	if err != nil {
		return false, graphQLError(ctx, "isFavorite", err)
	}
	return ok, nil
}

// GetTourFavorites lists every active favorite of a tour. Admin only.
func (r *Resolver) GetTourFavorites(ctx context.Context, args struct{ TourID graphql.ID }) (*FavoritesListResponseResolver, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	result, err := r.favorites.GetTourFavorites(ctx, string(args.TourID))
	if err != nil {
		return nil, graphQLError(ctx, "getTourFavorites", err)
	}

	return &FavoritesListResponseResolver{
		success:   result.Success,
		message:   result.Message,
		favorites: r.wrapFavorites(result.Favorites),
		total:     result.Total,
	}, nil
}

func toInt(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
