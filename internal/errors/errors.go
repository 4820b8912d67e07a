package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers switch on these with Is; the specific errors below wrap one of them.
var (
	ErrMissingInput    = errors.New("missing input")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrConfig          = errors.New("configuration error")
	ErrUpstream        = errors.New("upstream error")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Missing input
var (
	ErrMissingCode     = fmt.Errorf("%w: authorization code", ErrMissingInput)
	ErrMissingProvider = fmt.Errorf("%w: provider", ErrMissingInput)
)

// Configuration
var (
	ErrProviderNotConfigured = fmt.Errorf("%w: provider client id not set", ErrConfig)
)

// Upstream
var (
	ErrUpstreamAuth        = fmt.Errorf("%w: authorization code exchange failed", ErrUpstream)
	ErrLoginFailed         = fmt.Errorf("%w: login failed", ErrUpstream)
	ErrUpstreamUnavailable = fmt.Errorf("%w: upstream unavailable", ErrUpstream)
)

// StatusError carries the HTTP status an upstream answered with alongside the error kind.
type StatusError struct {
	Err        error
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v (status %d)", e.Err, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// WithStatus attaches an upstream status code to err
func WithStatus(err error, statusCode int) error {
	if err == nil {
		return nil
	}
	return &StatusError{Err: err, StatusCode: statusCode}
}

// StatusCode returns the upstream status attached to err, if any
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

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
