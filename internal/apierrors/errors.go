// Package apierrors defines the classified failures returned to API callers.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an APIError.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindConflict       Kind = "conflict"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindExpired        Kind = "expired"
	KindInternal       Kind = "internal"
)

// HTTPStatus maps a kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// APIError is a caller-facing failure with a stable kind and a human-readable message.
type APIError struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the internal cause for logging. It is never rendered.
func (e *APIError) Unwrap() error {
	return e.cause
}

// New creates an APIError of the given kind.
func New(kind Kind, format string, args ...any) *APIError {
	return &APIError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// As extracts an APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal for anything unclassified.
func KindOf(err error) Kind {
	if apiErr, ok := As(err); ok {
		return apiErr.Kind
	}
	return KindInternal
}

func NewErrValidation(format string, args ...any) *APIError {
	return New(KindValidation, format, args...)
}

func NewErrEmailIsTaken(email string) *APIError {
	return New(KindConflict, "user with email %s already exists", email)
}

func NewErrEmailAlreadyVerified() *APIError {
	return New(KindConflict, "email already verified")
}

func NewErrMissingSessionToken() *APIError {
	return New(KindAuthentication, "you are not authenticated")
}

func NewErrInvalidSessionToken() *APIError {
	return New(KindAuthentication, "unauthorized")
}

func NewErrCredentialsIncorrect() *APIError {
	return New(KindAuthentication, "credentials incorrect")
}

func NewErrEmailNotVerified() *APIError {
	return New(KindAuthentication, "please verify your email")
}

func NewErrAdminSignupDenied() *APIError {
	return New(KindAuthorization, "you cannot signup as an admin")
}

func NewErrForbidden() *APIError {
	return New(KindAuthorization, "you are not authorized to do this")
}

func NewErrInvalidCurrentPassword() *APIError {
	return New(KindAuthorization, "invalid current password")
}

func NewErrInvalidOTP() *APIError {
	return New(KindAuthorization, "invalid otp")
}

func NewErrOTPExpired() *APIError {
	return New(KindExpired, "otp expired")
}

func NewErrUserNotFound(ref string) *APIError {
	return New(KindNotFound, "user %s not found", ref)
}

// NewErrInternalServerError hides cause behind a generic message.
func NewErrInternalServerError(cause error) *APIError {
	return &APIError{Kind: KindInternal, Message: "internal server error", cause: cause}
}
