package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidState indicates that an operation is not permitted given the
// resource's current status.
var ErrInvalidState = errors.New("invalid state")

// ErrResourceExhausted indicates that a bounded allocation budget was spent
// without success. Callers must not retry at this layer.
var ErrResourceExhausted = errors.New("resource exhausted")

// ErrUnauthorized indicates that the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// Error pairs one of the sentinel errors above with a client-facing message.
// errors.Is against the sentinel still works through Unwrap.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.kind }

// NewNotFound returns an ErrNotFound with a client-facing message.
func NewNotFound(message string) error {
	return &Error{kind: ErrNotFound, message: message}
}

// NewValidation returns an ErrValidation with a client-facing message.
func NewValidation(message string) error {
	return &Error{kind: ErrValidation, message: message}
}

// NewDuplicate returns an ErrDuplicate with a client-facing message.
func NewDuplicate(message string) error {
	return &Error{kind: ErrDuplicate, message: message}
}

// NewForbidden returns an ErrForbidden with a client-facing message.
func NewForbidden(message string) error {
	return &Error{kind: ErrForbidden, message: message}
}

// NewInvalidState returns an ErrInvalidState with a client-facing message.
func NewInvalidState(message string) error {
	return &Error{kind: ErrInvalidState, message: message}
}

// NewResourceExhausted returns an ErrResourceExhausted with a client-facing message.
func NewResourceExhausted(message string) error {
	return &Error{kind: ErrResourceExhausted, message: message}
}

// NewUnauthorized returns an ErrUnauthorized with a client-facing message.
func NewUnauthorized(message string) error {
	return &Error{kind: ErrUnauthorized, message: message}
}
