package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

var tourColumns = []interface{}{"id", "title", "location", "price", "image_url", "is_active"}

// TourAdapter implements the TourRepository interface
type TourAdapter struct {
	client  *postgres.Client
	dialect goqu.DialectWrapper
}

// NewTourAdapter creates a new tour adapter
func NewTourAdapter(client *postgres.Client) repositories.TourRepository {
	return &TourAdapter{
		client:  client,
		dialect: goqu.Dialect("postgres"),
	}
}

// GetByID retrieves a tour by ID
func (a *TourAdapter) GetByID(ctx context.Context, id string) (*entities.Tour, error) {
	query, args, err := a.dialect.From("tours").
		Select(tourColumns...).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	tour, err := scanTour(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("tour with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get tour", err)
	}
	return tour, nil
}

// GetByIDs retrieves multiple tours by their IDs
func (a *TourAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Tour, error) {
	if len(ids) == 0 {
		return []*entities.Tour{}, nil
	}

	query, args, err := a.dialect.From("tours").
		Select(tourColumns...).
		Where(goqu.Ex{"id": ids}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get tours by ids", err)
	}
	defer rows.Close()

	var tours []*entities.Tour
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan tour", err)
		}
		tours = append(tours, tour)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate tours", err)
	}

	return tours, nil
}

func scanTour(row rowScanner) (*entities.Tour, error) {
	tour := &entities.Tour{}
	var price sql.NullFloat64

	err := row.Scan(
		&tour.ID,
		&tour.Title,
		&tour.Location,
		&price,
		&tour.ImageURL,
		&tour.IsActive,
	)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		tour.Price = &price.Float64
	}
	return tour, nil
}
