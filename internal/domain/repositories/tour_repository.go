package repositories

import (
	"context"

	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
)

// TourRepository defines read access to the tour catalogue
type TourRepository interface {
	// GetByID retrieves a tour by ID
	GetByID(ctx context.Context, id string) (*entities.Tour, error)

	// GetByIDs retrieves the tours that exist among ids, in any order
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Tour, error)
}
