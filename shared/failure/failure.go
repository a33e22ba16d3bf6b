// Package failure carries an HTTP status alongside an error so handlers can answer with the right code.
package failure

import (
	"errors"
	"net/http"
)

// Failure is an error with the HTTP status it should be reported as.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	cause   error
}

var (
	InvalidPageParam        = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
	InvalidLimitParam       = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}
)

func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.cause
}

// New builds a Failure from a status code and message.
func New(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// Wrap attaches an HTTP code to err while keeping it reachable through errors.Is. A nil err stays nil.
func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: code, Message: err.Error(), cause: err}
}

// BadRequest returns nil for a nil err.
func BadRequest(err error) error {
	return Wrap(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

// NotFound takes the missing entity's description, e.g. "booking not found".
func NotFound(entity string) error {
	return New(http.StatusNotFound, entity)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// Gone is for resources that existed but can no longer be acted on, like an expired hold.
func Gone(msg string) error {
	return New(http.StatusGone, msg)
}

// InternalError returns nil for a nil err.
func InternalError(err error) error {
	return Wrap(http.StatusInternalServerError, err)
}

func Unimplemented(method string) error {
	return New(http.StatusNotImplemented, method)
}

// BadGateway reports an upstream provider (payment gateway, mail relay) failing.
func BadGateway(msg string) error {
	return New(http.StatusBadGateway, msg)
}

func ServiceUnavailable(msg string) error {
	return New(http.StatusServiceUnavailable, msg)
}

// GetCode returns the status of the first Failure in err's chain, or 500.
func GetCode(err error) int {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}

	return http.StatusInternalServerError
}
