package repositories

import (
	"context"

	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
)

// UserRepository defines read access to user accounts
type UserRepository interface {
	// GetByIDs retrieves the users that exist among ids, in any order
	GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error)
}
