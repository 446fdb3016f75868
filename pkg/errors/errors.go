package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code classifies a failure independently of the transport reporting it.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// GraphQL extension codes, named the way the web client's Apollo links
// match on them.
const (
	GraphQLBadUserInput    = "BAD_USER_INPUT"
	GraphQLUnauthenticated = "UNAUTHENTICATED"
	GraphQLForbidden       = "FORBIDDEN"
	GraphQLNotFound        = "NOT_FOUND"
	GraphQLInternal        = "INTERNAL_SERVER_ERROR"
)

// Metadata describes how a code is presented to REST and GraphQL clients.
type Metadata struct {
	HTTPStatus     int
	GraphQLCode    string
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    {http.StatusBadRequest, GraphQLBadUserInput, false, "validation failed", true},
	CodeUnauthorized:  {http.StatusUnauthorized, GraphQLUnauthenticated, false, "authentication required", false},
	CodeForbidden:     {http.StatusForbidden, GraphQLForbidden, false, "access denied", false},
	CodeNotFound:      {http.StatusNotFound, GraphQLNotFound, false, "resource not found", false},
	CodeConflict:      {http.StatusConflict, GraphQLBadUserInput, false, "conflict detected", false},
	CodeStateConflict: {http.StatusUnprocessableEntity, GraphQLBadUserInput, false, "state transition disallowed", true},
	CodeRateLimit:     {http.StatusTooManyRequests, GraphQLForbidden, false, "rate limit exceeded", false},
	CodeInternal:      {http.StatusInternalServerError, GraphQLInternal, true, "internal server error", false},
	CodeDependency:    {http.StatusServiceUnavailable, GraphQLInternal, true, "dependency unavailable", true},
}

// MetadataFor falls back to CodeInternal for codes it does not know.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error services return. The message is safe to show to
// clients; the cause is only logged.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches client visible details, for example per field
// validation messages.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	default:
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost typed error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether the outermost typed error in err's chain carries code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}
