package apperrors

import (
	"errors"
	"net/http"
)

// Kind is the category an error is reported under at the HTTP boundary.
type Kind string

const (
	KindInvalidInput       Kind = "InvalidInput"
	KindNotFound           Kind = "NotFound"
	KindForbidden          Kind = "Forbidden"
	KindNotEligible        Kind = "NotEligible"
	KindInvalidTransition  Kind = "InvalidTransition"
	KindConfigurationError Kind = "ConfigurationError"
	KindUpstreamFailure    Kind = "UpstreamFailure"
	KindInternal           Kind = "Internal"
)

// Sentinels for errors.Is checks. Any *Error of the same Kind matches.
var (
	ErrInvalidInput      = &Error{Kind: KindInvalidInput, Message: "Invalid input"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "Not found"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "User is Forbidden from performing this action"}
	ErrNotEligible       = &Error{Kind: KindNotEligible, Message: "Listing is not available for request"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "Invalid order status transition"}
	ErrConfiguration     = &Error{Kind: KindConfigurationError, Message: "Service is not configured"}
	ErrUpstreamFailure   = &Error{Kind: KindUpstreamFailure, Message: "Upstream service failure"}
)

// Error is a categorised failure. Message is what the caller sees; Details keeps
// the specifics (failing fields, ids) for logs and error metadata.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, msg string, details map[string]interface{}, err error) *Error {
	return &Error{Kind: kind, Message: msg, Details: details, Err: err}
}

func InvalidInput(msg string, details map[string]interface{}) *Error {
	return newError(KindInvalidInput, msg, details, nil)
}

func NotFound(msg string) *Error {
	return newError(KindNotFound, msg, nil, nil)
}

func Forbidden(msg string) *Error {
	return newError(KindForbidden, msg, nil, nil)
}

func NotEligible(msg string, details map[string]interface{}) *Error {
	return newError(KindNotEligible, msg, details, nil)
}

func InvalidTransition(from, to string) *Error {
	return newError(KindInvalidTransition, "Invalid order status transition", map[string]interface{}{
		"from": from,
		"to":   to,
	}, nil)
}

func Configuration(msg string) *Error {
	return newError(KindConfigurationError, msg, nil, nil)
}

func Upstream(msg string, err error) *Error {
	return newError(KindUpstreamFailure, msg, nil, err)
}

// KindOf returns the Kind of err, or KindInternal when err is not categorised.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusCode maps a Kind to its HTTP status.
func StatusCode(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindNotEligible, KindInvalidTransition:
		return http.StatusConflict
	case KindUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
