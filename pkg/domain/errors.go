package domain

import "errors"

// Common domain errors. Every error returned by the services wraps exactly
// one of these so the transport layer can classify it with errors.Is.
var (
	// ErrValidation is returned when input validation fails before any write.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned when a requested resource is not found or is
	// not owned by the caller.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidState is returned when an operation is well formed but not
	// allowed in the current state of the resource.
	ErrInvalidState = errors.New("invalid state")
	// ErrPersistence is returned when the storage layer fails.
	ErrPersistence = errors.New("persistence failure")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrUnauthorized is returned when a user is not authorized to perform an action
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a domain error that carries a human readable message and is
// classified by one of the sentinels above.
type Error struct {
	Kind error
	Msg  string
}

// NewError returns an *Error of the given kind.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}
