package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/campuslist/campuslist/internal/database"
)

// APIError is a request-scoped error carrying an HTTP status code.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates an APIError with the given status code.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{code: code, message: message, cause: cause}
}

// NewBadRequestError creates a 400 APIError.
func NewBadRequestError(message string, cause error) *APIError {
	return NewAPIError(http.StatusBadRequest, message, cause)
}

// NewNotFoundError creates a 404 APIError.
func NewNotFoundError(message string) *APIError {
	return NewAPIError(http.StatusNotFound, message, nil)
}

// Code returns the HTTP status code.
func (e *APIError) Code() int { return e.code }

// Message returns the client-facing message.
func (e *APIError) Message() string { return e.message }

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error { return e.cause }

// apiError is the wire form of one error entry.
type apiError struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	ID     string `json:"id,omitempty"`
}

// errorResponse is the wire form of an error response.
type errorResponse struct {
	Errors []apiError `json:"errors"`
}

// WriteError writes a JSON error response derived from err. Typed
// APIErrors keep their status code, store misses map to 404, everything
// else is a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	detail := err.Error()

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Code()
		detail = apiErr.Message()
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
		detail = "resource not found"
	}

	requestID := chimiddleware.GetReqID(r.Context())

	if logger != nil && status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("request_id", requestID),
			slog.Int("status", status),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	resp := errorResponse{
		Errors: []apiError{
			{
				Status: fmt.Sprintf("%d", status),
				Title:  http.StatusText(status),
				Detail: detail,
				ID:     requestID,
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
