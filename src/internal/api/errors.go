package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/homedash/homedash/src/internal/errors"
	"github.com/homedash/homedash/src/internal/log"
)

// ErrorCode represents standard API error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates malformed or invalid request data.
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeNotFound indicates the requested entry was not found.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeDuplicateURL indicates another entry already uses the URL.
	ErrCodeDuplicateURL ErrorCode = "duplicate_url"

	// ErrCodeForbidden indicates the client is not allowed to use the API.
	ErrCodeForbidden ErrorCode = "forbidden"

	// ErrCodeValidationFailed indicates entry or proxy settings validation failed.
	ErrCodeValidationFailed ErrorCode = "validation_failed"

	// ErrCodePersistence indicates the data file could not be written.
	ErrCodePersistence ErrorCode = "persistence_error"

	// ErrCodeInternalError indicates an internal server error.
	ErrCodeInternalError ErrorCode = "internal_error"
)

// APIError represents a structured API error response.
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError for JSON responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code ErrorCode, message string) APIError {
	return APIError{Code: code, Message: message}
}

// WithDetails adds details to an APIError.
func (e APIError) WithDetails(details map[string]interface{}) APIError {
	e.Details = details
	return e
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(ErrorResponse{Error: err}); encErr != nil {
		log.Debugf("Failed to encode error response: %v", encErr)
	}
}

// WriteInvalidRequest writes a 400 Bad Request error.
func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeInvalidRequest, message))
}

// WriteForbidden writes a 403 Forbidden error.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// WriteInternalError writes a 500 Internal Server Error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// WriteAppError maps a domain error to its HTTP status and envelope.
func WriteAppError(w http.ResponseWriter, err error) {
	var details map[string]interface{}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Cause != nil {
		details = map[string]interface{}{"cause": appErr.Cause.Error()}
	}

	message := err.Error()
	if appErr != nil {
		message = appErr.Message
	}

	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeNotFound:
		WriteError(w, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
	case apperrors.ErrCodeDuplicateURL:
		WriteError(w, http.StatusConflict, NewAPIError(ErrCodeDuplicateURL, message))
	case apperrors.ErrCodeValidation:
		WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeValidationFailed, message).WithDetails(details))
	case apperrors.ErrCodePersistence:
		log.Errorf("Persistence failure: %v", err)
		WriteError(w, http.StatusServiceUnavailable, NewAPIError(ErrCodePersistence, message).WithDetails(details))
	default:
		log.Errorf("Request failed: %v", err)
		WriteInternalError(w, err.Error())
	}
}
