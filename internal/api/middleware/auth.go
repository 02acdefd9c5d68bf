package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/tourbooking/backend/internal/auth"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
)

const bearerPrefix = "Bearer "

// AuthMiddleware attaches the caller's principal from a bearer JWT. Requests
// without an Authorization header pass through anonymously; a header with an
// unusable token is rejected.
func AuthMiddleware(tokens *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(header, bearerPrefix) {
				rejectUnauthorized(w, "authorization header must use the Bearer scheme")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
			if err != nil {
				observability.LoggerFromContext(r.Context()).Debug().Err(err).Msg("Rejected bearer token")
				rejectUnauthorized(w, "invalid or expired token")
				return
			}

			principal := auth.PrincipalFromClaims(claims)
			setRequestUser(r.Context(), principal.UserID)
			ctx := auth.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="tourbooking"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]interface{}{{
			"message":    message,
			"extensions": map[string]string{"code": "UNAUTHORIZED"},
		}},
	})
}
