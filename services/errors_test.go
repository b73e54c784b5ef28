package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapStorage(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := WrapStorage("snapshot not persisted", cause)

	assert.True(t, IsStorageError(err))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeStorage, GetErrorType(err))
}

func TestIsUnauthorizedError(t *testing.T) {
	assert.True(t, IsUnauthorizedError(ErrInvalidCredentials))
	assert.True(t, IsUnauthorizedError(ErrTokenExpired))
	assert.True(t, IsUnauthorizedError(fmt.Errorf("login: %w", ErrInvalidToken)))
	assert.False(t, IsUnauthorizedError(ErrStorageUnavailable))
	assert.False(t, IsUnauthorizedError(errors.New("plain")))
}

func TestGetErrorTypeNonDomainError(t *testing.T) {
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
	assert.Equal(t, ErrorType(""), GetErrorType(nil))
}
