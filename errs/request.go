package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Authentication & Authorization Errors
var (
	ErrMissingToken       = errors.New("missing access token")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrSessionEnded       = errors.New("session ended")
	ErrInsufficientRole   = errors.New("insufficient role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleNotDefined     = errors.New("no role defined for this user")
)

// LoginRoute is where clients are sent when a route gate rejects them.
const LoginRoute = "/auth/login"

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    "Missing access token",
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Invalid access token",
		Field:      "authorization",
		Cause:      cause,
	}
}

func NewSessionEndedError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrSessionEnded,
		Details:    "Session has ended, sign in again",
		Field:      "authorization",
	}
}

func NewInsufficientRoleError(allowed []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInsufficientRole,
		Details:    fmt.Sprintf("Insufficient role. Allowed: %v", allowed),
		Field:      "authorization",
	}
}

func NewInvalidCredentialsError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidCredentials,
		Details:    "Email or password is incorrect",
		Cause:      cause,
	}
}

func NewRoleNotDefinedError(userID string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrRoleNotDefined,
		Details:    fmt.Sprintf("user %s has no role document", userID),
	}
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsSessionEndedError(err error) bool {
	return errors.Is(err, ErrSessionEnded)
}

func IsInvalidCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
