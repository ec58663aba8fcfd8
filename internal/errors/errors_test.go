package errors_test

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/Fabioalbuqueque/pregacao/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := map[errors.Code]int{
		errors.CodeNotFound:      http.StatusNotFound,
		errors.CodeAlreadyExists: http.StatusConflict,
		errors.CodeValidation:    http.StatusBadRequest,
		errors.CodeUnavailable:   http.StatusServiceUnavailable,
		errors.CodeInternal:      http.StatusInternalServerError,
		errors.Code("OTHER"):     http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, code.HTTPStatus(), code)
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := errors.NotFoundf("outline %s not found", "abc")

	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.False(t, errors.Is(err, errors.ErrValidation))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, errors.Is(wrapped, errors.ErrNotFound))
}

func TestError_WithCause(t *testing.T) {
	err := errors.Wrap(io.EOF, errors.CodeInternal, "read failed")

	assert.Equal(t, "read failed: EOF", err.Error())
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())

	withCause := errors.ErrUnavailable.WithCause(io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(withCause, io.ErrUnexpectedEOF))
	assert.True(t, errors.Is(withCause, errors.ErrUnavailable))
}

func TestValidationWithDetails(t *testing.T) {
	err := errors.ValidationWithDetails("validation failed", map[string]string{"title": "is required"})

	assert.Equal(t, errors.CodeValidation, err.Code)
	assert.Equal(t, map[string]string{"title": "is required"}, err.Details)
}
