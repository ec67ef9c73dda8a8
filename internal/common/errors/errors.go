// Package errors provides standardized error handling for the lead search
// pipeline. Every failure path maps to a code and an HTTP status so the
// handler can always produce a well-formed JSON error response.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfiguration    ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeSearchFailed     ErrorCode = "SEARCH_FAILED"
	ErrCodeEnrichmentFailed ErrorCode = "ENRICHMENT_FAILED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// MaxProviderMessageLen caps how much of an upstream provider's error body
// is carried into our own error messages and responses.
const MaxProviderMessageLen = 500

// StandardError is a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Hint      string                 `json:"hint,omitempty"`
	Example   map[string]interface{} `json:"example,omitempty"`
	Details   string                 `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps an error code to the response status the handler sends.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Truncate shortens a provider-reported message to MaxProviderMessageLen.
func Truncate(msg string) string {
	if len(msg) > MaxProviderMessageLen {
		return msg[:MaxProviderMessageLen]
	}
	return msg
}

// NewConfigurationError reports a missing or unusable credential. Fatal for
// the request, never retried.
func NewConfigurationError(hint string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   "Server configuration error",
		Hint:      hint,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError reports malformed or missing input.
func NewValidationError(message, hint string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   message,
		Hint:      hint,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationErrorWithExample attaches a sample valid payload to the error
// so the 400 response can show callers what the endpoint expects.
func NewValidationErrorWithExample(message string, example map[string]interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   message,
		Example:   example,
		Timestamp: time.Now().UTC(),
	}
}

// NewMethodNotAllowedError reports a request method other than POST/OPTIONS.
func NewMethodNotAllowedError(method string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMethodNotAllowed,
		Message:   "Method not allowed",
		Details:   fmt.Sprintf("method: %s", method),
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchFailedError wraps a places search provider failure. The provider
// message is truncated before it is surfaced to the caller.
func NewSearchFailedError(providerMessage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchFailed,
		Message:   "Places search failed: " + Truncate(providerMessage),
		Hint:      "The places provider rejected the search request",
		Timestamp: time.Now().UTC(),
	}
}

// NewEnrichmentFailedError wraps a detail-lookup or scrape failure for one
// place. It is contained at the per-place boundary and only ever logged.
func NewEnrichmentFailedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnrichmentFailed,
		Message:   fmt.Sprintf("enrichment %s failed", stage),
		Details:   Truncate(err.Error()),
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Server error",
		Hint:      "Unexpected server error",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// Normalize ensures any error becomes a StandardError so every failure path
// produces a uniform JSON response.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}
