package resolvers

import (
	"context"

	"github.com/graph-gophers/graphql-go"
	"github.com/zatekoja/tourbooking/backend/internal/application/services"
	"github.com/zatekoja/tourbooking/backend/internal/auth"
)

type tourArgs struct {
	TourID graphql.ID
}

// AddToFavorites saves a tour for the caller
func (r *Resolver) AddToFavorites(ctx context.Context, args tourArgs) (*FavoriteResponseResolver, error) {
	return r.favoriteMutation(ctx, "addToFavorites", args.TourID, r.favorites.AddToFavorites)
}

// RemoveFromFavorites soft-deletes the caller's favorite on a tour
func (r *Resolver) RemoveFromFavorites(ctx context.Context, args tourArgs) (*FavoriteResponseResolver, error) {
	return r.favoriteMutation(ctx, "removeFromFavorites", args.TourID, r.favorites.RemoveFromFavorites)
}

// ToggleFavorite flips the caller's favorite state on a tour
func (r *Resolver) ToggleFavorite(ctx context.Context, args tourArgs) (*FavoriteResponseResolver, error) {
	return r.favoriteMutation(ctx, "toggleFavorite", args.TourID, r.favorites.ToggleFavorite)
}

// ReorderFavorites rewrites the display order of the caller's favorites
func (r *Resolver) ReorderFavorites(ctx context.Context, args struct{ FavoriteIDs []graphql.ID }) (*ReorderResponseResolver, error) {
	principal, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(args.FavoriteIDs))
	for i, id := range args.FavoriteIDs {
		ids[i] = string(id)
	}

	result, err := r.favorites.ReorderFavorites(ctx, principal.UserID, ids)
	if err != nil {
		return nil, graphQLError(ctx, "reorderFavorites", err)
	}

	return &ReorderResponseResolver{
		success:   result.Success,
		message:   result.Message,
		favorites: r.wrapFavorites(result.Favorites),
	}, nil
}

type favoriteMutationFunc func(ctx context.Context, userID, tourID string) (*services.FavoriteResult, error)

func (r *Resolver) favoriteMutation(ctx context.Context, field string, tourID graphql.ID, fn favoriteMutationFunc) (*FavoriteResponseResolver, error) {
	principal, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	result, err := fn(ctx, principal.UserID, string(tourID))
	if err != nil {
		return nil, graphQLError(ctx, field, err)
	}

	resp := &FavoriteResponseResolver{
		success: result.Success,
		message: result.Message,
	}
	if result.Favorite != nil {
		resp.favorite = &FavoriteResolver{favorite: result.Favorite, root: r}
	}
	return resp, nil
}
