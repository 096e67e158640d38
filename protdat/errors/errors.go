package errors

import "fmt"

// Error types for protdat-get operations
var (
	// ErrHeaderNotFound is returned when neither candidate header offset validates
	ErrHeaderNotFound = &DATError{Code: "HEADER_NOT_FOUND", Message: "no valid TOC header found"}

	// ErrTruncatedTOC is returned when the container ends before the declared TOC does
	ErrTruncatedTOC = &DATError{Code: "TRUNCATED_TOC", Message: "container too short for declared TOC"}

	// ErrIOFailure is returned when reading the container or writing an asset fails
	ErrIOFailure = &DATError{Code: "IO_FAILURE", Message: "container I/O failed"}

	// ErrInvalidRange is returned when a sector range falls outside the container
	ErrInvalidRange = &DATError{Code: "INVALID_RANGE", Message: "sector range out of bounds"}
)

// DATError represents a structured error in protdat-get operations
type DATError struct {
	Code    string                 // Error code for programmatic handling
	Message string                 // Human-readable error message
	Cause   error                  // Underlying error, if any
	Details map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *DATError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("[%s] %s (details: %v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DATError) Unwrap() error {
	return e.Cause
}

// WithCause adds a cause to the error
func (e *DATError) WithCause(cause error) *DATError {
	return &DATError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
		Details: e.Details,
	}
}

// WithDetail adds a detail key-value pair to the error
func (e *DATError) WithDetail(key string, value interface{}) *DATError {
	details := make(map[string]interface{})
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DATError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Details: details,
	}
}

// WithMessage overrides the error message
func (e *DATError) WithMessage(message string) *DATError {
	return &DATError{
		Code:    e.Code,
		Message: message,
		Cause:   e.Cause,
		Details: e.Details,
	}
}

// IsDATError checks if an error is a DATError
func IsDATError(err error) bool {
	_, ok := err.(*DATError)
	return ok
}

// GetErrorCode extracts the error code from a DATError
func GetErrorCode(err error) string {
	if datErr, ok := err.(*DATError); ok {
		return datErr.Code
	}
	return ""
}
