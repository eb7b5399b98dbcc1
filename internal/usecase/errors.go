package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrVotingClosed          = errors.New("voting has ended")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// PublicError is a sentinel paired with a message that is safe to show to
// clients verbatim.
type PublicError struct {
	Kind    error
	Message string
}

func (e *PublicError) Error() string {
	return e.Message
}

func (e *PublicError) Unwrap() error {
	return e.Kind
}

func publicError(kind error, message string) error {
	return &PublicError{Kind: kind, Message: message}
}
