package resolvers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
)

func TestGraphQLError(t *testing.T) {
	ctx := context.Background()

	unauthorized := apperrors.NewUnauthorizedError("authentication required")
	assert.Same(t, unauthorized, graphQLError(ctx, "getFavorites", unauthorized))

	err := graphQLError(ctx, "getFavorites", apperrors.NewInternalError("failed to list favorites", errors.New("pq: password authentication failed")))
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)
	assert.NotContains(t, err.Error(), "password")

	err = graphQLError(ctx, "isFavorite", errors.New("redis: connection refused"))
	assert.Equal(t, "INTERNAL: internal server error", err.Error())
}
