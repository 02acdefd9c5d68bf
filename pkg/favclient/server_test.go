package favclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zatekoja/tourbooking/backend/internal/adapters/events"
	"github.com/zatekoja/tourbooking/backend/internal/adapters/memory"
	"github.com/zatekoja/tourbooking/backend/internal/api/middleware"
	"github.com/zatekoja/tourbooking/backend/internal/application/services"
	"github.com/zatekoja/tourbooking/backend/internal/auth"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/resolvers"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/schema"
)

type testServer struct {
	*httptest.Server
	tokens *auth.JWTManager
}

// newTestServer serves the favorites schema over the in-memory fixtures plus
// any extra tours
func newTestServer(t *testing.T, extra ...*entities.Tour) *testServer {
	t.Helper()
	tours := memory.NewTourRepository(append(memory.FixtureTours(), extra...)...)
	users := memory.NewUserRepository(memory.FixtureUsers()...)
	bus := events.NewLocalEventBus()
	t.Cleanup(func() { bus.Close() })

	service := services.NewFavoriteService(memory.NewFavoriteRepository(), tours, nil, bus, services.FavoriteServiceConfig{}, nil)
	tokens := auth.NewJWTManager("favclient-test-secret", time.Hour)

	var handler http.Handler = schema.Handler(schema.MustParse(resolvers.NewResolver(service, tours, users)))
	handler = middleware.LoadersMiddleware(tours, users)(handler)
	handler = middleware.AuthMiddleware(tokens)(handler)

	mux := http.NewServeMux()
	mux.Handle("/graphql", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, tokens: tokens}
}

func (s *testServer) clientFor(t *testing.T, userIndex int) *Client {
	t.Helper()
	token, _, err := s.tokens.Generate(memory.FixtureUsers()[userIndex])
	require.NoError(t, err)
	return NewClient(s.URL, WithToken(token))
}

func (s *testServer) demoClient(t *testing.T) *Client { return s.clientFor(t, 0) }
func (s *testServer) adminClient(t *testing.T) *Client { return s.clientFor(t, 1) }
