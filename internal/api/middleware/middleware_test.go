package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/tourbooking/backend/internal/adapters/memory"
	"github.com/zatekoja/tourbooking/backend/internal/auth"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/graphql/loaders"
)

func principalEcho(seen **auth.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	token, _, err := tokens.Generate(&entities.User{ID: "user-demo", Email: "demo@example.com", Role: entities.UserRoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"anonymous", "", http.StatusNoContent, ""},
		{"valid token", "Bearer " + token, http.StatusNoContent, "user-demo"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *auth.Principal
			handler := AuthMiddleware(tokens)(principalEcho(&seen))

			req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantUser == "" {
				assert.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, tt.wantUser, seen.UserID)
			assert.True(t, seen.IsAdmin())
		})
	}
}

func TestAuthMiddleware_RejectionIsGraphQLShaped(t *testing.T) {
	handler := AuthMiddleware(auth.NewJWTManager("s", time.Hour))(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.JSONEq(t,
		`{"errors":[{"message":"invalid or expired token","extensions":{"code":"UNAUTHORIZED"}}]}`,
		w.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_DefaultsToWildcard(t *testing.T) {
	handler := CORSMiddleware(nil)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestResponseOptimization_GzipAndNoStore(t *testing.T) {
	handler := ResponseOptimization(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"isFavorite":true}}`)
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "private, no-store", w.Header().Get("Cache-Control"))

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, `{"data":{"isFavorite":true}}`, string(body))
}

func TestLoadersMiddleware(t *testing.T) {
	var got *loaders.Loaders
	handler := LoadersMiddleware(memory.NewTourRepository(), memory.NewUserRepository())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = loaders.For(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))
	assert.NotNil(t, got)
}

func TestLoggingAndObservability_KeepStatus(t *testing.T) {
	handler := LoggingMiddleware(ObservabilityMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestLoggingMiddleware_LogsAuthenticatedUser(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = previous }()

	tokens := auth.NewJWTManager("test-secret", time.Hour)
	token, _, err := tokens.Generate(&entities.User{ID: "user-demo", Email: "demo@example.com"})
	require.NoError(t, err)

	handler := LoggingMiddleware(AuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"user_id":"user-demo"`)
	assert.Contains(t, buf.String(), `"status":204`)
}
