package auth

import (
	"context"

	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

type contextKey struct{}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == entities.UserRoleAdmin
}

// PrincipalFromClaims converts verified token claims
func PrincipalFromClaims(claims *Claims) *Principal {
	return &Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}
}

// WithPrincipal returns a context carrying p
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the caller, or nil for anonymous requests
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(contextKey{}).(*Principal)
	return p
}

// RequireUser returns the caller or an UNAUTHORIZED error
func RequireUser(ctx context.Context) (*Principal, error) {
	p := FromContext(ctx)
	if p == nil || p.UserID == "" {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	return p, nil
}

// RequireAdmin returns the caller when it is an admin, else an UNAUTHORIZED error
func RequireAdmin(ctx context.Context) (*Principal, error) {
	p, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, apperrors.NewUnauthorizedError("admin role required")
	}
	return p, nil
}
