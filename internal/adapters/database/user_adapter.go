package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client  *postgres.Client
	dialect goqu.DialectWrapper
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client:  client,
		dialect: goqu.Dialect("postgres"),
	}
}

// GetByIDs retrieves multiple users by their IDs
func (a *UserAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	if len(ids) == 0 {
		return []*entities.User{}, nil
	}

	query, args, err := a.dialect.From("users").
		Select("id", "email", "name", "role").
		Where(goqu.Ex{"id": ids}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get users by ids", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		user := &entities.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role); err != nil {
			return nil, apperrors.NewInternalError("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate users", err)
	}

	return users, nil
}
