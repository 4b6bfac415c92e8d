// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping. Every service operation
// returns either nil or an *Error carrying one of these kinds.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindConflict    Kind = "conflict"
	KindNotFound    Kind = "not_found"
	KindForbidden   Kind = "forbidden"
	KindEmptyBasket Kind = "empty_basket"
	KindUnavailable Kind = "unavailable"
	KindAuth        Kind = "auth"
	KindInternal    Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error  { return New(KindValidation, message) }
func Conflict(message string) *Error    { return New(KindConflict, message) }
func NotFound(message string) *Error    { return New(KindNotFound, message) }
func Forbidden(message string) *Error   { return New(KindForbidden, message) }
func EmptyBasket(message string) *Error { return New(KindEmptyBasket, message) }
func Auth(message string) *Error        { return New(KindAuth, message) }

// Unavailable marks a transient storage failure the caller may retry.
func Unavailable(err error) *Error {
	return Wrap(KindUnavailable, "storage unavailable", err)
}

func Internal(err error) *Error {
	return Wrap(KindInternal, "internal error", err)
}

// KindOf reports the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the caller may safely retry the operation.
func Retryable(err error) bool {
	return IsKind(err, KindUnavailable)
}
