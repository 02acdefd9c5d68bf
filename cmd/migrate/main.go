package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/migrations"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
	"github.com/zatekoja/tourbooking/backend/pkg/config"
)

func main() {
	var direction string
	var steps int

	flag.StringVar(&direction, "direction", "up", "Migration direction: up or down")
	flag.IntVar(&steps, "steps", 1, "Number of migrations to roll back with -direction=down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-migrate", cfg.Server.Environment)

	pgClient, err := postgres.NewClient(context.Background(), &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgClient.Close()

	switch direction {
	case "up":
		err = migrations.Up(pgClient.DB())
	case "down":
		err = migrations.Down(pgClient.DB(), steps)
	default:
		log.Fatal().Str("direction", direction).Msg("Unknown migration direction")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
