package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

const favoritesTable = "favorites"

var favoriteColumns = []interface{}{
	"id", "user_id", "tour_id", "is_deleted", "sort_order", "created_at", "updated_at",
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// FavoriteAdapter implements the FavoriteRepository interface
type FavoriteAdapter struct {
	client  *postgres.Client
	dialect goqu.DialectWrapper
	metrics *observability.Metrics
}

// NewFavoriteAdapter creates a new favorite adapter. metrics may be nil.
func NewFavoriteAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.FavoriteRepository {
	return &FavoriteAdapter{
		client:  client,
		dialect: goqu.Dialect("postgres"),
		metrics: metrics,
	}
}

// ListActiveByUser retrieves a page of a user's favorites in display order
func (a *FavoriteAdapter) ListActiveByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Favorite, error) {
	defer a.observe(ctx, "favorites.list_by_user", time.Now())

	ds := a.dialect.From(favoritesTable).
		Select(favoriteColumns...).
		Where(goqu.Ex{"user_id": userID, "is_deleted": false}).
		Order(goqu.I("sort_order").Asc(), goqu.I("created_at").Asc(), goqu.I("id").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	return queryFavorites(ctx, a.client.DB(), ds)
}

// CountActiveByUser counts a user's favorites
func (a *FavoriteAdapter) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	defer a.observe(ctx, "favorites.count_by_user", time.Now())

	query, args, err := a.dialect.From(favoritesTable).
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"user_id": userID, "is_deleted": false}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count favorites", err)
	}
	return count, nil
}

// ListActiveByTour retrieves every active favorite of a tour, newest first
func (a *FavoriteAdapter) ListActiveByTour(ctx context.Context, tourID string) ([]*entities.Favorite, error) {
	defer a.observe(ctx, "favorites.list_by_tour", time.Now())

	ds := a.dialect.From(favoritesTable).
		Select(favoriteColumns...).
		Where(goqu.Ex{"tour_id": tourID, "is_deleted": false}).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc())

	return queryFavorites(ctx, a.client.DB(), ds)
}

// IsFavorite reports whether a user has an active favorite on a tour
func (a *FavoriteAdapter) IsFavorite(ctx context.Context, userID, tourID string) (bool, error) {
	defer a.observe(ctx, "favorites.is_favorite", time.Now())

	query, args, err := a.dialect.From(favoritesTable).
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"user_id": userID, "tour_id": tourID, "is_deleted": false}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check favorite", err)
	}
	return count > 0, nil
}

// WithUserLock runs fn in a transaction holding a transaction-scoped advisory
// lock on the user. Concurrent calls for the same user are serialized.
func (a *FavoriteAdapter) WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context, store repositories.FavoriteStore) error) (err error) {
	defer a.observe(ctx, "favorites.locked_tx", time.Now())

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	lockQuery, lockArgs, err := a.dialect.Select(
		goqu.Func("pg_advisory_xact_lock", goqu.Func("hashtext", userID)),
	).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build lock query", err)
	}
	if _, err = tx.ExecContext(ctx, lockQuery, lockArgs...); err != nil {
		return apperrors.NewInternalError("failed to lock user favorites", err)
	}

	if err = fn(ctx, &favoriteStore{q: tx, dialect: a.dialect}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}
	return nil
}

func (a *FavoriteAdapter) observe(ctx context.Context, operation string, start time.Time) {
	observability.RecordDBMetric(ctx, a.metrics, operation, time.Since(start))
}

// favoriteStore executes favorite writes inside a locked transaction
type favoriteStore struct {
	q       queryer
	dialect goqu.DialectWrapper
}

func (s *favoriteStore) FindByUserAndTour(ctx context.Context, userID, tourID string) (*entities.Favorite, error) {
	query, args, err := s.dialect.From(favoritesTable).
		Select(favoriteColumns...).
		Where(goqu.Ex{"user_id": userID, "tour_id": tourID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	favorite, err := scanFavorite(s.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("favorite for tour %s not found", tourID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get favorite", err)
	}
	return favorite, nil
}

func (s *favoriteStore) ListAllActiveByUser(ctx context.Context, userID string) ([]*entities.Favorite, error) {
	ds := s.dialect.From(favoritesTable).
		Select(favoriteColumns...).
		Where(goqu.Ex{"user_id": userID, "is_deleted": false}).
		Order(goqu.I("sort_order").Asc(), goqu.I("created_at").Asc(), goqu.I("id").Asc())

	return queryFavorites(ctx, s.q, ds)
}

func (s *favoriteStore) Insert(ctx context.Context, favorite *entities.Favorite) error {
	query, args, err := s.dialect.Insert(favoritesTable).Rows(goqu.Record{
		"id":         favorite.ID,
		"user_id":    favorite.UserID,
		"tour_id":    favorite.TourID,
		"is_deleted": favorite.IsDeleted,
		"sort_order": favorite.Order,
		"created_at": favorite.CreatedAt,
		"updated_at": favorite.UpdatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperrors.NewConflictError("Tour is already in favorites")
		}
		return apperrors.NewInternalError("failed to create favorite", err)
	}
	return nil
}

func (s *favoriteStore) UpdateState(ctx context.Context, favorite *entities.Favorite) error {
	query, args, err := s.dialect.Update(favoritesTable).
		Set(goqu.Record{
			"is_deleted": favorite.IsDeleted,
			"sort_order": favorite.Order,
			"updated_at": favorite.UpdatedAt,
		}).
		Where(goqu.Ex{"id": favorite.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update favorite", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("favorite with id %s not found", favorite.ID))
	}
	return nil
}

// ApplyOrder rewrites sort_order for every ID with a single CASE update
func (s *favoriteStore) ApplyOrder(ctx context.Context, userID string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	orderCase := goqu.Case().Value(goqu.C("id"))
	for i, id := range orderedIDs {
		orderCase = orderCase.When(id, goqu.Cast(goqu.V(i), "INTEGER"))
	}
	orderCase = orderCase.Else(goqu.C("sort_order"))

	query, args, err := s.dialect.Update(favoritesTable).
		Set(goqu.Record{
			"sort_order": orderCase,
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"user_id": userID, "id": orderedIDs}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build reorder query", err)
	}

	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to reorder favorites", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected != int64(len(orderedIDs)) {
		return apperrors.NewInternalError(
			fmt.Sprintf("reorder touched %d of %d favorites", rowsAffected, len(orderedIDs)), nil)
	}
	return nil
}

func queryFavorites(ctx context.Context, q queryer, ds *goqu.SelectDataset) ([]*entities.Favorite, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list favorites", err)
	}
	defer rows.Close()

	favorites := make([]*entities.Favorite, 0)
	for rows.Next() {
		favorite, err := scanFavorite(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan favorite", err)
		}
		favorites = append(favorites, favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate favorites", err)
	}

	return favorites, nil
}

func scanFavorite(row rowScanner) (*entities.Favorite, error) {
	favorite := &entities.Favorite{}
	err := row.Scan(
		&favorite.ID,
		&favorite.UserID,
		&favorite.TourID,
		&favorite.IsDeleted,
		&favorite.Order,
		&favorite.CreatedAt,
		&favorite.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return favorite, nil
}
