package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/http/response"
)

// EnvelopeVersion is the version of the response envelope format.
const EnvelopeVersion = response.EnvelopeVersion

// Envelope wraps every JSON response body.
type Envelope = response.Envelope

// EnvelopeTransformer is a huma transformer that wraps response bodies in an Envelope.
// Error bodies become {"success": false, "error": ...}; APIError values also carry
// code, message and details.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	var apiErr *APIError
	if err, ok := v.(error); ok && errors.As(err, &apiErr) {
		return Envelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	if err, ok := v.(error); ok {
		return Envelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	return Envelope{
		Version: EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
