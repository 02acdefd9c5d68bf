package resolvers

import (
	"context"

	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

const internalErrorMessage = "internal server error"

// graphQLError converts a service error into the error reported to the client.
// Typed client errors keep their message and code; anything else is logged and
// replaced by a generic INTERNAL error.
func graphQLError(ctx context.Context, field string, err error) error {
	if appErr, ok := apperrors.As(err); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeInternal, apperrors.ErrorTypeExternal:
		default:
			return appErr
		}
	}

	observability.LoggerFromContext(ctx).Error().
		Err(err).
		Str("field", field).
		Msg("GraphQL field failed")
	return apperrors.NewInternalError(internalErrorMessage, nil)
}
