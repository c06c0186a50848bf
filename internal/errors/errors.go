package errors

import (
	"errors"
	"fmt"
)

// Common error types for the session gateway
var (
	// Token errors
	ErrMalformedToken     = errors.New("malformed token")
	ErrVerificationFailed = errors.New("token verification failed")
	ErrInvalidClaim       = errors.New("invalid claim")

	// Authentication errors
	ErrAuthenticationDenied = errors.New("authentication denied")
	ErrIdentityUnreachable  = errors.New("identity API unreachable")
	ErrTimeout              = errors.New("identity API timeout")

	// Registration errors
	ErrRegistrationFailed = errors.New("registration failed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// General errors
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
