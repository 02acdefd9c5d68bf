package resolvers

import (
	"github.com/zatekoja/tourbooking/backend/internal/application/services"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
)

// Resolver is the root resolver for both Query and Mutation. Field resolvers
// are matched to schema fields by name.
type Resolver struct {
	favorites *services.FavoriteService
	tourRepo  repositories.TourRepository
	userRepo  repositories.UserRepository
}

// NewResolver creates a new resolver with dependencies
func NewResolver(
	favorites *services.FavoriteService,
	tourRepo repositories.TourRepository,
	userRepo repositories.UserRepository,
) *Resolver {
	return &Resolver{
		favorites: favorites,
		tourRepo:  tourRepo,
		userRepo:  userRepo,
	}
}
