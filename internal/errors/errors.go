package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrClaimNotFound is returned when a claim is not found.
	ErrClaimNotFound = errors.New("claim not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidTransition is returned when a claim is not in a state that allows the transition.
	ErrInvalidTransition = errors.New("claim is not pending")
	// ErrConflict is returned when a concurrent transition wins the race.
	ErrConflict = errors.New("claim was modified concurrently")
	// ErrForbidden is returned when the actor's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted for this role")
	// ErrUserHasClaims is returned when deleting a user that owns claims.
	ErrUserHasClaims = errors.New("user has existing claims")
	// ErrNoAttachment is returned when a claim has no stored receipt.
	ErrNoAttachment = errors.New("claim has no attachment")
)

// Validation rule codes surfaced in ValidationError.Rule.
const (
	RuleHoursPerClaim = "hours-per-claim-exceeded"
	RuleMissingField  = "missing-field"
	RuleMonthlyCap    = "monthly-cap-exceeded"
	RuleFileTooLarge  = "file-too-large"
	RuleFileType      = "file-type-not-allowed"
	RuleClaimCount    = "claim-count-exceeded"
)

// ValidationError reports the first business rule a candidate claim failed.
// Details carry rule-specific context (current totals, remaining allowance)
// so callers can render a precise message.
type ValidationError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Rule, e.Message)
}

// NewValidationError creates a validation error for a rule.
func NewValidationError(rule, message string, details map[string]interface{}) *ValidationError {
	return &ValidationError{Rule: rule, Message: message, Details: details}
}

// StorageError wraps an attachment storage collaborator failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("attachment storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps a collaborator failure.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    map[string]interface{}
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		httpErr := NewHTTPError(http.StatusUnprocessableEntity, valErr.Message, valErr.Rule)
		httpErr.Details = valErr.Details
		return httpErr
	}

	var storErr *StorageError
	if errors.As(err, &storErr) {
		return NewHTTPError(http.StatusBadGateway, "attachment storage unavailable", "STORAGE_ERROR")
	}

	switch {
	case errors.Is(err, ErrClaimNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CLAIM_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidTransition):
		return NewHTTPError(http.StatusConflict, err.Error(), "INVALID_TRANSITION")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserHasClaims):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_HAS_CLAIMS")
	case errors.Is(err, ErrNoAttachment):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NO_ATTACHMENT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
