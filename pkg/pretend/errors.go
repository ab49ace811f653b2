package pretend

import (
	"errors"
	"fmt"
)

// ErrorKind classifies runtime failures.
type ErrorKind int

const (
	// KindClient is a failure to create or bind a client.
	KindClient ErrorKind = iota
	// KindRequest is a failure to build a request.
	KindRequest
	// KindResponse is a failure to execute a request.
	KindResponse
	// KindBody is a failure to read or decode a response body.
	KindBody
	// KindStatus is a non-2xx status for a status-checked shape.
	KindStatus
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	case KindBody:
		return "body"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Sentinels matching every *Error of the corresponding kind with errors.Is.
var (
	ErrClient   = errors.New("failed to create client")
	ErrRequest  = errors.New("invalid request")
	ErrResponse = errors.New("failed to execute request")
	ErrBody     = errors.New("failed to read response body")
	ErrStatus   = errors.New("unexpected HTTP status")
)

// ErrMissingTemplateArgument is returned when a placeholder has no argument.
var ErrMissingTemplateArgument = errors.New("missing template argument")

// Error is the single error type surfaced by client calls.
type Error struct {
	Kind       ErrorKind
	StatusCode int // set for KindStatus
	Cause      error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	msg := e.sentinel().Error()
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindClient:
		return ErrClient
	case KindRequest:
		return ErrRequest
	case KindResponse:
		return ErrResponse
	case KindBody:
		return ErrBody
	default:
		return ErrStatus
	}
}

func clientError(cause error) *Error {
	return &Error{Kind: KindClient, Cause: cause}
}

func requestError(cause error) *Error {
	return &Error{Kind: KindRequest, Cause: cause}
}

func responseError(cause error) *Error {
	return &Error{Kind: KindResponse, Cause: cause}
}

func bodyError(cause error) *Error {
	return &Error{Kind: KindBody, Cause: cause}
}

func statusError(code int) *Error {
	return &Error{Kind: KindStatus, StatusCode: code}
}

// asKind keeps an existing *Error intact and wraps anything else.
func asKind(err error, wrap func(error) *Error) error {
	var perr *Error
	if errors.As(err, &perr) {
		return err
	}
	return wrap(err)
}

// StatusCode returns the HTTP status carried by a status error.
func StatusCode(err error) (int, bool) {
	var perr *Error
	if errors.As(err, &perr) && perr.Kind == KindStatus {
		return perr.StatusCode, true
	}
	return 0, false
}

// IsKind reports whether err is a pretend error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == kind
}
