package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout       = "ESTIMATE_TIMEOUT"
	ErrCodeNavigation    = "NAVIGATION_FAILED"
	ErrCodeExtraction    = "EXTRACTION_FAILED"
	ErrCodeBrowserLaunch = "BROWSER_LAUNCH_FAILED"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeUnsupported   = "UNSUPPORTED_ENVIRONMENT"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// EstimateError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type EstimateError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *EstimateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EstimateError) Unwrap() error {
	return e.Err
}

// NewEstimateError creates a new EstimateError.
func NewEstimateError(code, message string, err error) *EstimateError {
	return &EstimateError{Code: code, Message: message, Err: err}
}

// Cause returns the underlying cause string for the API "details" field,
// falling back to the message when nothing was wrapped.
func (e *EstimateError) Cause() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}
