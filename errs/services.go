package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-party vendor errors
var (
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrInvalidAPIKey      = errors.New("invalid API key")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrVendorRejected     = errors.New("vendor rejected request")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

// Domain rule errors
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyRecipients   = errors.New("no recipients")
	ErrStorageFailure    = errors.New("object storage failure")
)

func NewRateLimitError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    fmt.Sprintf("Rate limit exceeded for %s service", service),
		Field:      "rate_limit",
	}
}

func NewInvalidAPIKeyError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrInvalidAPIKey,
		Details:    fmt.Sprintf("%s rejected the configured API key", service),
		Field:      "api_key",
	}
}

func NewServiceUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s service is unavailable", service),
		Cause:      cause,
	}
}

// NewVendorError keeps the vendor supplied message so it can be shown to the
// operator as-is.
func NewVendorError(service string, status int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrVendorRejected,
		Details:    fmt.Sprintf("%s (status %d): %s", service, status, message),
	}
}

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("%s is required", key),
		Field:      key,
	}
}

func NewConfigInvalidError(key, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("%s: %s", key, reason),
		Field:      key,
	}
}

func NewInvalidTransitionError(entity, from, to string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrInvalidTransition,
		Details:    fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
		Field:      "status",
	}
}

func NewEmptyRecipientsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrEmptyRecipients,
		Details:    "At least one recipient is required",
		Field:      "recipients",
	}
}

func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorageFailure,
		Details:    fmt.Sprintf("Object storage %s failed", operation),
		Cause:      cause,
	}
}

func IsInvalidTransitionError(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsConfigMissingError(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}
