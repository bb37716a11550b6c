package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	HttpInternalError    = "internal_error"
	HttpInvalidJsonError = "invalid_json"
	HttpValidationError  = "validation_failed"
	HttpNotFoundError    = "not_found"
	HttpConflictError    = "conflict"
	HttpEvaluationError  = "evaluation_failed"
)

var (
	// ErrValidation marks a request the caller must fix (bad appliedTo, pagination on a grouped report, missing view).
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an unknown report, collection or scope entry.
	ErrNotFound = errors.New("not found")
	// ErrConflict is reserved for scope changes that clash with persisted reports.
	ErrConflict = errors.New("conflict")
	// ErrEvaluation wraps store failures during evaluation.
	ErrEvaluation = errors.New("evaluation error")
)

// ErrorResponse is the error response body for all API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Evaluationf wraps cause so both ErrEvaluation and the original error match errors.Is.
func Evaluationf(cause error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %w", ErrEvaluation, fmt.Sprintf(format, args...), cause)
}

// Classify maps an error to its HTTP status and response body.
func Classify(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, ErrorResponse{ErrorType: HttpValidationError, Message: err.Error()}
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrorResponse{ErrorType: HttpNotFoundError, Message: err.Error()}
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, ErrorResponse{ErrorType: HttpConflictError, Message: err.Error()}
	case errors.Is(err, ErrEvaluation):
		return http.StatusInternalServerError, ErrorResponse{ErrorType: HttpEvaluationError, Message: "report evaluation failed"}
	default:
		return http.StatusInternalServerError, ErrorResponse{ErrorType: HttpInternalError, Message: "internal server error"}
	}
}
