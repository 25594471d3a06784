package models

import (
	"errors"
	"fmt"
)

// ErrorCode represents a classified provider error category.
type ErrorCode string

const (
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeQuota          ErrorCode = "quota_exceeded"
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
	ErrorCodeUnavailable    ErrorCode = "service_unavailable"
	ErrorCodeNetwork        ErrorCode = "network_error"
)

// ProviderError wraps provider failures with a classification the retry
// policy acts on: rate limits back off with jitter, server-side failures back
// off plainly, and client errors fail immediately.
type ProviderError struct {
	Code       ErrorCode
	Message    string
	StatusCode int // HTTP status, 0 when unknown
	Underlying error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns true if the error should be retried with backoff.
func IsRetryable(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	// Unclassified errors are treated as transient.
	return true
}

// IsRateLimit returns true for rate-limit classified errors.
func IsRateLimit(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr) && providerErr.Code == ErrorCodeRateLimit
}

// RetriesExhaustedError is the synthetic error surfaced after the retry
// budget is spent. It embeds the attempt count and the last underlying cause.
type RetriesExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d retries: %v", e.Attempts, e.LastErr)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.LastErr
}
