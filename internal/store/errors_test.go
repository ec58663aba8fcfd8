package store_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Fabioalbuqueque/pregacao/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{
		Code:    http.StatusNotFound,
		Message: "not found",
	}

	assert.Equal(t, "not found", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &store.Error{
		Code:    http.StatusNotFound,
		Message: "not found",
		Err:     cause,
	}

	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "underlying error")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("badger: closed")
	wrapped := store.ErrNotFound.WithCause(cause)

	assert.Equal(t, http.StatusNotFound, wrapped.HTTPCode())
	assert.ErrorIs(t, wrapped, store.ErrNotFound)
	assert.ErrorIs(t, wrapped, cause)
	assert.NotErrorIs(t, wrapped, store.ErrAlreadyExists)
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      *store.Error
		wantCode int
	}{
		{name: "not found", err: store.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "already exists", err: store.ErrAlreadyExists, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.HTTPCode())
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}
