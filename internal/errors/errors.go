package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the token lifecycle and the upstream API clients
var (
	// ErrNotAuthenticated means there is no usable token; the owner must go through the login flow again.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUpstreamUnavailable covers transport failures (dns, refused connections, timeouts).
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamRejected is matched by every *RejectedError.
	ErrUpstreamRejected = errors.New("upstream rejected request")

	// ErrMalformedResponse means the upstream body could not be parsed.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// General errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
)

// RejectedError is returned when an upstream answers with a non-success status.
// The raw body is kept for diagnostics.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrUpstreamRejected, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrUpstreamRejected) match any RejectedError
func (e *RejectedError) Is(target error) bool {
	return target == ErrUpstreamRejected
}

// Rejected builds a RejectedError
func Rejected(statusCode int, body []byte) error {
	return &RejectedError{StatusCode: statusCode, Body: string(body)}
}

// Unavailable wraps a transport error so it matches ErrUpstreamUnavailable and still exposes the cause
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}

// Malformed wraps a decode error so it matches ErrMalformedResponse
func Malformed(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
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

// New returns an error that formats as the given text
func New(text string) error {
	return errors.New(text)
}
