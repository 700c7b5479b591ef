package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies an API failure.
type ErrorKind int

const (
	// ErrorNetwork means no response reached us.
	ErrorNetwork ErrorKind = iota
	// ErrorUnauthorized is an HTTP 401. The gateway has already torn the
	// session down by the time a caller sees this.
	ErrorUnauthorized
	// ErrorNotFound is an HTTP 404.
	ErrorNotFound
	// ErrorValidation is any other 4xx/5xx, carrying the server detail
	// verbatim when present.
	ErrorValidation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNetwork:
		return "network"
	case ErrorUnauthorized:
		return "unauthorized"
	case ErrorNotFound:
		return "not found"
	case ErrorValidation:
		return "validation"
	}
	return "unknown"
}

// Error is the uniform error shape returned by every gateway call.
type Error struct {
	Kind   ErrorKind
	Status int
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s error (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Detail)
}

func kindOf(err error) (ErrorKind, bool) {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is a 401 classification.
func IsUnauthorized(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrorUnauthorized
}

// IsNotFound reports whether err is a 404 classification.
func IsNotFound(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrorNotFound
}

// IsValidation reports whether err carries a structured server detail.
func IsValidation(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrorValidation
}

// IsNetwork reports whether the request never produced a response.
func IsNetwork(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrorNetwork
}
