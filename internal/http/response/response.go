// Package response writes the JSON envelope for handlers that live outside the
// huma API: router fallbacks and panic recovery.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// EnvelopeVersion is the version of the response envelope format.
// Clients check "v" before decoding the rest of the body.
const EnvelopeVersion = 1

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSON writes data wrapped in an envelope. Statuses of 400 and above are reported
// as unsuccessful.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{
		Version: EnvelopeVersion,
		Success: status < 400,
		Data:    data,
	}, logger)
}

// Error writes an error envelope with a machine-readable code.
func Error(w http.ResponseWriter, status int, code, message string, logger *slog.Logger) {
	write(w, status, Envelope{
		Version: EnvelopeVersion,
		Success: false,
		Error:   message,
		Code:    code,
		Message: message,
	}, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message, logger)
}

// MethodNotAllowed writes a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, "VALIDATION", message, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, "INTERNAL", message, logger)
}

func write(w http.ResponseWriter, status int, env Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}
