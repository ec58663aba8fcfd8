package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/Fabioalbuqueque/pregacao/internal/errors"
	"github.com/Fabioalbuqueque/pregacao/internal/reference"
	"github.com/Fabioalbuqueque/pregacao/internal/search"
	"github.com/Fabioalbuqueque/pregacao/internal/store"
)

// APIError implements huma.StatusError with a machine-readable code.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler makes huma build APIError values from domain, store and
// reference errors. Call it after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	var fieldErrors map[string]string

	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			return &APIError{
				status:  storeErr.HTTPCode(),
				Code:    statusToCode(storeErr.HTTPCode()),
				Message: storeErr.Message,
			}
		}

		if isReferenceError(err) || errors.Is(err, search.ErrEmptyQuery) {
			return &APIError{
				status:  http.StatusBadRequest,
				Code:    string(domainerrors.CodeValidation),
				Message: err.Error(),
			}
		}

		// Request validation failures from huma itself.
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			if fieldErrors == nil {
				fieldErrors = make(map[string]string)
			}
			fieldErrors[detail.Location] = detail.Message
		}
	}

	apiErr := &APIError{
		status:  status,
		Code:    statusToCode(status),
		Message: message,
	}
	if fieldErrors != nil {
		apiErr.Details = fieldErrors
	}
	return apiErr
}

func isReferenceError(err error) bool {
	return errors.Is(err, reference.ErrUnknownBook) ||
		errors.Is(err, reference.ErrChapterOutOfRange) ||
		errors.Is(err, reference.ErrVerseOutOfRange)
}

// statusToCode maps HTTP status codes to domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeAlreadyExists)
	case http.StatusServiceUnavailable:
		return string(domainerrors.CodeUnavailable)
	default:
		return string(domainerrors.CodeInternal)
	}
}
