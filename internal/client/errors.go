// ABOUTME: Error taxonomy for API client failures
// ABOUTME: Distinguishes network, auth, validation, and not-found errors for callers

package client

import (
	"errors"
	"fmt"
)

// Kind classifies an API error
type Kind int

const (
	// KindNetwork is a transport-level failure (DNS, connection refused, timeout)
	KindNetwork Kind = iota
	// KindAuth is a rejected credential or missing/invalid token
	KindAuth
	// KindValidation is a rejected write (malformed or duplicate data)
	KindValidation
	// KindNotFound is an absent entity
	KindNotFound
	// KindServer is any other non-2xx response
	KindServer
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a classified API failure. Message carries the raw server text
// where the API provides one, so it can be shown to the user as-is.
type Error struct {
	Kind    Kind
	Op      string // the operation that failed, e.g. "login"
	Status  int    // HTTP status, 0 for transport failures
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of an API error, or KindServer for anything else
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}

// IsAuth reports whether err is an authentication failure
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsValidation reports whether err is a rejected write
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindValidation
}

// IsNotFound reports whether err is an absent entity
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// IsNetwork reports whether err is a transport failure
func IsNetwork(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNetwork
}
