package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

// SeedCatalogue upserts tours and users so that a fresh database can serve
// favorites. Existing rows are overwritten by ID.
func SeedCatalogue(ctx context.Context, client *postgres.Client, tours []*entities.Tour, users []*entities.User) error {
	dialect := goqu.Dialect("postgres")

	if len(users) > 0 {
		rows := make([]interface{}, len(users))
		for i, u := range users {
			rows[i] = goqu.Record{"id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role}
		}
		query, args, err := dialect.Insert("users").
			Rows(rows...).
			OnConflict(goqu.DoUpdate("id", goqu.Record{
				"email": goqu.L("EXCLUDED.email"),
				"name":  goqu.L("EXCLUDED.name"),
				"role":  goqu.L("EXCLUDED.role"),
			})).
			Prepared(true).
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build query", err)
		}
		if _, err := client.DB().ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to seed users", err)
		}
	}

	if len(tours) > 0 {
		rows := make([]interface{}, len(tours))
		for i, t := range tours {
			var price interface{}
			if t.Price != nil {
				price = *t.Price
			}
			rows[i] = goqu.Record{
				"id":        t.ID,
				"title":     t.Title,
				"location":  t.Location,
				"price":     price,
				"image_url": t.ImageURL,
				"is_active": t.IsActive,
			}
		}
		query, args, err := dialect.Insert("tours").
			Rows(rows...).
			OnConflict(goqu.DoUpdate("id", goqu.Record{
				"title":     goqu.L("EXCLUDED.title"),
				"location":  goqu.L("EXCLUDED.location"),
				"price":     goqu.L("EXCLUDED.price"),
				"image_url": goqu.L("EXCLUDED.image_url"),
				"is_active": goqu.L("EXCLUDED.is_active"),
			})).
			Prepared(true).
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build query", err)
		}
		if _, err := client.DB().ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to seed tours", err)
		}
	}

	return nil
}
