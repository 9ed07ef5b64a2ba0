package errors

import (
	"errors"
	"fmt"
)

// Common error types for the challenge client
var (
	// Session errors
	ErrAnonymousSession = errors.New("no access token")
	ErrNoRefreshToken   = errors.New("no refresh token")
	ErrRenewalRejected  = errors.New("token renewal rejected")
	ErrStorageClosed    = errors.New("storage closed")

	// Challenge errors
	ErrInvalidChallenge = errors.New("invalid challenge")
	ErrInvalidStartDate = errors.New("invalid challenge start date")
	ErrNotFound         = errors.New("not found")

	// Transport errors
	ErrUnexpectedResponse = errors.New("unexpected response")
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
