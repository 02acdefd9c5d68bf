package main

import (
	"context"
	"log"
	"os"

	"github.com/zatekoja/tourbooking/backend/internal/adapters/database"
	"github.com/zatekoja/tourbooking/backend/internal/adapters/memory"
	"github.com/zatekoja/tourbooking/backend/internal/application/services"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/migrations"
	"github.com/zatekoja/tourbooking/backend/pkg/config"
)

// demoFavorites are saved for the demo user in this order
var demoFavorites = []string{"tour-kyoto-temples", "tour-lisbon-food", "tour-reykjavik-lights"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	if err := migrations.Up(pgClient.DB()); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE favorites, tours, users CASCADE`); err != nil {
			log.Fatalf("Failed to reset database: %v", err)
		}
	}

	if err := database.SeedCatalogue(ctx, pgClient, memory.FixtureTours(), memory.FixtureUsers()); err != nil {
		log.Fatalf("Failed to seed catalogue: %v", err)
	}
	log.Printf("Seeded %d tours and %d users", len(memory.FixtureTours()), len(memory.FixtureUsers()))

	favoriteService := services.NewFavoriteService(
		database.NewFavoriteAdapter(pgClient, nil),
		database.NewTourAdapter(pgClient),
		nil,
		nil,
		services.FavoriteServiceConfig{},
		nil,
	)

	for _, tourID := range demoFavorites {
		result, err := favoriteService.AddToFavorites(ctx, "user-demo", tourID)
		if err != nil {
			log.Fatalf("Failed to add favorite %s: %v", tourID, err)
		}
		log.Printf("%s: %s", tourID, result.Message)
	}

	log.Println("Seeding completed")
}
