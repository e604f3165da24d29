package services

import "errors"

var (
	// ErrNotFound marks failures caused by an unknown badge code
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks failures caused by a malformed request
	ErrInvalidInput = errors.New("invalid input")
)

// Error is a failure the client can act on. Its message is safe to return in a response.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string {
	return e.message
}

// Is matches ErrNotFound or ErrInvalidInput
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// NewNotFoundError reports an unknown badge code with a client-facing message
func NewNotFoundError(message string) error {
	return &Error{kind: ErrNotFound, message: message}
}

// NewInvalidInputError reports a malformed request with a client-facing message
func NewInvalidInputError(message string) error {
	return &Error{kind: ErrInvalidInput, message: message}
}
