package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/tourbooking/backend/internal/adapters/cache"
	"github.com/zatekoja/tourbooking/backend/internal/adapters/database"
	"github.com/zatekoja/tourbooking/backend/internal/adapters/events"
	"github.com/zatekoja/tourbooking/backend/internal/adapters/memory"
	"github.com/zatekoja/tourbooking/backend/internal/api/handlers"
	"github.com/zatekoja/tourbooking/backend/internal/api/routes"
	"github.com/zatekoja/tourbooking/backend/internal/application/services"
	"github.com/zatekoja/tourbooking/backend/internal/auth"
	"github.com/zatekoja/tourbooking/backend/internal/domain/providers"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/resolvers"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/schema"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/migrations"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
	"github.com/zatekoja/tourbooking/backend/pkg/config"
)

const serviceName = "graphql"

// application is the wired GraphQL server
type application struct {
	handler http.Handler
	tokens  *auth.JWTManager
	closers []func()
}

// Close releases every resource acquired by buildApplication, newest first
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type storage struct {
	favorites repositories.FavoriteRepository
	tours     repositories.TourRepository
	users     repositories.UserRepository
}

// buildApplication wires storage, cache, events and HTTP routes from cfg
func buildApplication(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*application, error) {
	app := &application{
		tokens: auth.NewJWTManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute),
	}
	checks := map[string]handlers.HealthCheck{}

	store, err := app.openStorage(ctx, cfg, metrics, checks)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Redis is optional. Without it the status cache is skipped and events
	// stay inside this process.
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Cache.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, running without favorite status cache")
		} else {
			app.closers = append(app.closers, func() { redisClient.Close() })
			checks["redis"] = redisClient.Ping

			cacheProvider = cache.NewBreakerCache(cache.NewRedisAdapter(redisClient), cache.BreakerConfig{
				Name:             "favorite-status-cache",
				FailureThreshold: cfg.Cache.BreakerFailureThreshold,
				OpenTimeout:      time.Duration(cfg.Cache.BreakerTimeoutSeconds) * time.Second,
			})
			eventBus = events.NewRedisEventBus(redisClient)
			store.favorites = database.NewCachedFavoriteAdapter(store.favorites, cacheProvider, cfg.Cache.StatusTTLSeconds, metrics)
			log.Info().Msg("Favorite status cache enabled")
		}
	}
	if eventBus == nil {
		eventBus = events.NewLocalEventBus()
	}
	app.closers = append(app.closers, func() { eventBus.Close() })

	var warmer *services.CacheWarmingService
	if cacheProvider != nil {
		invalidation := services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
		} else {
			app.closers = append(app.closers, invalidation.Stop)
		}
		warmer = services.NewCacheWarmingService(store.favorites, cacheProvider, cfg.Cache.StatusTTLSeconds)
	}

	favoriteService := services.NewFavoriteService(
		store.favorites,
		store.tours,
		cacheProvider,
		eventBus,
		services.FavoriteServiceConfig{StatusTTLSeconds: cfg.Cache.StatusTTLSeconds},
		metrics,
	)

	gqlSchema, err := schema.Parse(resolvers.NewResolver(favoriteService, store.tours, store.users))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}

	var playgroundHandler http.Handler
	if !cfg.IsProduction() {
		playgroundHandler = playground.Handler("GraphQL Playground", "/graphql")
	}

	router := routes.NewRouter(routes.Options{
		GraphQL:        schema.Handler(gqlSchema),
		Playground:     playgroundHandler,
		SSE:            handlers.NewSSEHandler(eventBus, warmer),
		Health:         handlers.NewHealthHandler(serviceName, checks),
		Tokens:         app.tokens,
		TourRepo:       store.tours,
		UserRepo:       store.users,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        metrics,
	})
	app.handler = router.SetupRoutes()

	return app, nil
}

func (a *application) openStorage(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, checks map[string]handlers.HealthCheck) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		tours := memory.NewTourRepository()
		users := memory.NewUserRepository()
		if cfg.Storage.SeedFixtures {
			tours.Put(memory.FixtureTours()...)
			users.Put(memory.FixtureUsers()...)
		}
		log.Info().Bool("fixtures", cfg.Storage.SeedFixtures).Msg("Using in-memory storage")
		return &storage{favorites: memory.NewFavoriteRepository(), tours: tours, users: users}, nil
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL client: %w", err)
	}
	a.closers = append(a.closers, func() { pgClient.Close() })
	checks["postgres"] = pgClient.Ping

	if cfg.Storage.AutoMigrate {
		if err := migrations.Up(pgClient.DB()); err != nil {
			return nil, err
		}
	}
	if cfg.Storage.SeedFixtures {
		if err := database.SeedCatalogue(ctx, pgClient, memory.FixtureTours(), memory.FixtureUsers()); err != nil {
			return nil, err
		}
		log.Info().Msg("Demo catalogue seeded")
	}

	return &storage{
		favorites: database.NewFavoriteAdapter(pgClient, metrics),
		tours:     database.NewTourAdapter(pgClient),
		users:     database.NewUserAdapter(pgClient),
	}, nil
}

// logDemoTokens prints bearer tokens for the fixture users so the playground
// can be used without an identity provider.
func logDemoTokens(tokens *auth.JWTManager) {
	for _, user := range memory.FixtureUsers() {
		token, expiresAt, err := tokens.Generate(user)
		if err != nil {
			log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to issue demo token")
			continue
		}
		log.Info().
			Str("user_id", user.ID).
			Str("role", user.Role).
			Time("expires_at", expiresAt).
			Str("token", token).
			Msg("Demo bearer token")
	}
}
