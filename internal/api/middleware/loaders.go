package middleware

import (
	"net/http"

	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/loaders"
)

// LoadersMiddleware attaches fresh dataloaders to every request
func LoadersMiddleware(tourRepo repositories.TourRepository, userRepo repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := loaders.WithLoaders(r.Context(), loaders.NewLoaders(tourRepo, userRepo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
