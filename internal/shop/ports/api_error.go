package ports

import (
	"errors"
	"fmt"
)

// APIErrorKind classifies every failure the gateway can produce. The
// gateway never lets a raw transport or decoding error past its boundary.
type APIErrorKind string

const (
	// KindValidation is user-correctable, field-scoped input rejection.
	KindValidation APIErrorKind = "validation"
	// KindAuth maps to HTTP 401 specifically: the session is invalid.
	KindAuth APIErrorKind = "auth"
	// KindServer is an opaque backend fault, including non-JSON bodies.
	KindServer APIErrorKind = "server"
	// KindTransport is a connectivity failure; no HTTP status exists.
	KindTransport APIErrorKind = "transport"
)

// APIError is the single normalized error shape all call sites receive.
type APIError struct {
	Kind    APIErrorKind
	Status  int
	Message string
	// Fields maps field name to messages for validation errors.
	Fields map[string][]string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// FirstFieldError returns one field-scoped message for inline display,
// falling back to the general message.
func (e *APIError) FirstFieldError() string {
	for _, messages := range e.Fields {
		if len(messages) > 0 {
			return messages[0]
		}
	}
	return e.Message
}

// AsAPIError unwraps err into an APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func isKind(err error, kind APIErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

func IsAuthError(err error) bool       { return isKind(err, KindAuth) }
func IsValidationError(err error) bool { return isKind(err, KindValidation) }
func IsServerError(err error) bool     { return isKind(err, KindServer) }
func IsTransportError(err error) bool  { return isKind(err, KindTransport) }
