package errors

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	err := NewInternalError("failed to list favorites", sql.ErrConnDone)

	assert.Equal(t, "INTERNAL: failed to list favorites: sql: connection is already closed", err.Error())
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, "NOT_FOUND: tour not found", NewNotFoundError("tour not found").Error())
}

func TestAs_FindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("resolver: %w", NewConflictError("already favorited"))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrorTypeConflict, appErr.Type)
	assert.True(t, IsType(wrapped, ErrorTypeConflict))
	assert.False(t, IsType(wrapped, ErrorTypeNotFound))

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestAppError_IsBusinessRule(t *testing.T) {
	assert.True(t, NewNotFoundError("x").IsBusinessRule())
	assert.True(t, NewValidationError("x").IsBusinessRule())
	assert.True(t, NewConflictError("x").IsBusinessRule())
	assert.False(t, NewUnauthorizedError("x").IsBusinessRule())
	assert.False(t, NewInternalError("x", nil).IsBusinessRule())
}

func TestAppError_Extensions(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"code": "UNAUTHORIZED"}, NewUnauthorizedError("login required").Extensions())
}
