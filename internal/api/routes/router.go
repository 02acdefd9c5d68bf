package routes

import (
	"net/http"

	"github.com/zatekoja/tourbooking/backend/internal/api/handlers"
	"github.com/zatekoja/tourbooking/backend/internal/api/middleware"
	"github.com/zatekoja/tourbooking/backend/internal/auth"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	graphqlHandler    http.Handler
	playgroundHandler http.Handler
	sseHandler        *handlers.SSEHandler
	healthHandler     *handlers.HealthHandler

	tokens         *auth.JWTManager
	tourRepo       repositories.TourRepository
	userRepo       repositories.UserRepository
	allowedOrigins []string
	metrics        *observability.Metrics
}

// Options configures the router
type Options struct {
	GraphQL        http.Handler
	Playground     http.Handler // nil disables /playground
	SSE            *handlers.SSEHandler
	Health         *handlers.HealthHandler
	Tokens         *auth.JWTManager
	TourRepo       repositories.TourRepository
	UserRepo       repositories.UserRepository
	AllowedOrigins []string
	Metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(opts Options) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		graphqlHandler:    opts.GraphQL,
		playgroundHandler: opts.Playground,
		sseHandler:        opts.SSE,
		healthHandler:     opts.Health,
		tokens:            opts.Tokens,
		tourRepo:          opts.TourRepo,
		userRepo:          opts.UserRepo,
		allowedOrigins:    opts.AllowedOrigins,
		metrics:           opts.Metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.Handle("GET /health", r.healthHandler)

	graphql := middleware.LoadersMiddleware(r.tourRepo, r.userRepo)(r.graphqlHandler)
	graphql = middleware.ResponseOptimization(graphql)
	r.mux.Handle("POST /graphql", graphql)
	r.mux.Handle("GET /graphql", graphql)

	if r.playgroundHandler != nil {
		r.mux.Handle("GET /playground", r.playgroundHandler)
	}

	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/stream/favorites", r.sseHandler.StreamFavorites)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.AuthMiddleware(r.tokens)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so preflight requests never reach auth
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
