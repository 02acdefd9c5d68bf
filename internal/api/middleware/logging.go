package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
)

type requestUserKey struct{}

// requestUser carries the caller identified further down the chain back to
// the request log
type requestUser struct {
	id string
}

// setRequestUser records the authenticated user for the request log
func setRequestUser(ctx context.Context, userID string) {
	if u, ok := ctx.Value(requestUserKey{}).(*requestUser); ok {
		u.id = userID
	}
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		user := &requestUser{}
		r = r.WithContext(context.WithValue(r.Context(), requestUserKey{}, user))

		// Create a response writer wrapper to capture status code
		rw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the next handler
		next.ServeHTTP(rw, r)

		// Log request details, escalating server errors

		event := observability.LoggerFromContext(r.Context()).Info()
		if rw.statusCode >= http.StatusInternalServerError {
			event = observability.LoggerFromContext(r.Context()).Error()
		}
		if user.id != "" {
			event = event.Str("user_id", user.id)
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// loggingResponseWriter wraps http.ResponseWriter to capture status code
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *loggingResponseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *loggingResponseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
