package services

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorBadGateway   ErrorCode = "bad_gateway"
)

// ServiceError carries a user-facing message. Handlers show Message verbatim.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Err }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewBadGatewayError(msg string) error { return &ServiceError{Code: ErrorBadGateway, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// statusError is implemented by backend client errors. Keeping it as an
// interface lets services stay free of transport packages.
type statusError interface {
	error
	StatusCode() int
	UserMessage() string
}

// remoteError converts a failed backend call into a ServiceError. When
// preferRemote is set, a message supplied by the backend replaces fallback.
func remoteError(err error, fallback string, preferRemote bool) error {
	if err == nil {
		return nil
	}
	if se, ok := AsServiceError(err); ok {
		return se
	}
	msg := fallback
	code := ErrorBadGateway
	var st statusError
	if errors.As(err, &st) {
		if preferRemote && strings.TrimSpace(st.UserMessage()) != "" {
			msg = st.UserMessage()
		}
		code = codeForStatus(st.StatusCode())
	}
	return &ServiceError{Code: code, Message: msg, Err: err}
}

// AsRemoteError is remoteError for callers outside this package that talk
// to the backend directly.
func AsRemoteError(err error, fallback string) error {
	return remoteError(err, fallback, false)
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrorInvalid
	case http.StatusUnauthorized:
		return ErrorUnauthorized
	case http.StatusForbidden:
		return ErrorForbidden
	case http.StatusNotFound:
		return ErrorNotFound
	case http.StatusConflict:
		return ErrorConflict
	default:
		return ErrorBadGateway
	}
}

// ValidationError reports every invalid field of a submitted form at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
