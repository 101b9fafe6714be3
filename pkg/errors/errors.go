package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInsufficientStock  Code = "INSUFFICIENT_STOCK"
	CodeConflict           Code = "CONFLICT"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodePersistenceFailure Code = "PERSISTENCE_FAILURE"
	CodeInternal           Code = "INTERNAL"
)

type Metadata struct {
	HTTPStatus    int
	PublicMessage string
	// ExposeMessage allows the specific message to reach clients.
	ExposeMessage bool
}

var metadataByCode = map[Code]Metadata{
	CodeInvalidInput:       {HTTPStatus: http.StatusBadRequest, PublicMessage: "invalid input", ExposeMessage: true},
	CodeNotFound:           {HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found", ExposeMessage: true},
	CodeInsufficientStock:  {HTTPStatus: http.StatusConflict, PublicMessage: "insufficient stock", ExposeMessage: true},
	CodeConflict:           {HTTPStatus: http.StatusConflict, PublicMessage: "conflict detected", ExposeMessage: true},
	CodeUnauthorized:       {HTTPStatus: http.StatusUnauthorized, PublicMessage: "authentication required", ExposeMessage: true},
	CodeRateLimited:        {HTTPStatus: http.StatusTooManyRequests, PublicMessage: "too many attempts, try again later", ExposeMessage: false},
	CodePersistenceFailure: {HTTPStatus: http.StatusServiceUnavailable, PublicMessage: "storage unavailable, nothing was saved", ExposeMessage: false},
	CodeInternal:           {HTTPStatus: http.StatusInternalServerError, PublicMessage: "internal server error", ExposeMessage: false},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
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

// WithDetails mutates e; never call it on a package-level sentinel.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of err, CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}
