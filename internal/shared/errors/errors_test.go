package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	cause := errors.New("duplicate key")
	wrapped := fmt.Errorf("create user: %w", NewConflictError("Email already registered", cause))

	appErr := GetAppError(wrapped)
	assert.Equal(t, ErrorTypeConflict, appErr.Type)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.ErrorIs(t, appErr, cause)
}

func TestGetAppError_PlainErrorIsInternal(t *testing.T) {
	appErr := GetAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "An unexpected error occurred", appErr.Message)
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "validation_error: Email and password are required",
		NewValidationError("Email and password are required").Error())
}
