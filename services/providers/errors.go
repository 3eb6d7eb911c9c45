package providers

import "fmt"

// ProviderError represents a classified failure raised by a provider adapter.
// Classification (retryable or not) is decided once, at the point the failure
// is mapped from the vendor response; it is never re-classified later.
type ProviderError struct {
	// Provider that generated the error
	Provider ProviderType

	// Code is the vendor error code or type, when available
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (0 when not applicable)
	StatusCode int

	// Retryable indicates a transient condition: rate limiting, timeout,
	// 5xx-equivalent, connection failure
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status=%d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider ProviderType, code, message string, statusCode int, retryable bool, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Cause:      cause,
	}
}

// IsRetryable checks if an error is a retryable provider failure
func IsRetryable(err error) bool {
	if provErr, ok := err.(*ProviderError); ok {
		return provErr.Retryable
	}
	return false
}

// RetryableStatus reports whether an HTTP status code indicates a transient
// provider-side condition (rate limiting or 5xx).
func RetryableStatus(statusCode int) bool {
	return statusCode == 429 || statusCode >= 500
}

// ConfigurationError represents a failure that is independent of which model
// is attempted: empty candidate list, empty or misconfigured allowlist,
// invalid prompt. It aborts the whole fallback sequence immediately.
type ConfigurationError struct {
	Message string
	Cause   error
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap implements error unwrapping
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a configuration error with a formatted message
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}
