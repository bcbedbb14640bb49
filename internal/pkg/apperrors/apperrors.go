// Package apperrors carries the typed failure taxonomy used by the checkout
// and webhook flows. Every error exposes a stable machine code alongside a
// human-readable message so controllers can map failures to HTTP responses
// without string matching.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
	KindExternal      Kind = "external"
	KindSignature     Kind = "signature"
)

// Stable error codes surfaced to API clients.
const (
	CodeInvalidInput          = "invalid_input"
	CodeNotFound              = "not_found"
	CodeProductsNotFound      = "products_not_found"
	CodeTenantNotFound        = "tenant_not_found"
	CodeTenantNotEligible     = "tenant_not_eligible"
	CodeSessionCreationFailed = "session_creation_failed"
	CodeLinkCreationFailed    = "link_creation_failed"
	CodeInvalidSignature      = "invalid_signature"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Authorization(code, message string) *Error {
	return New(KindAuthorization, code, message)
}

func External(code, message string, err error) *Error {
	return Wrap(KindExternal, code, message, err)
}

// KindOf extracts the taxonomy kind from any error in the chain; unknown
// errors are treated as external failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindExternal
}

// CodeOf extracts the stable code from any error in the chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal_error"
}
