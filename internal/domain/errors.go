package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the API boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindInvalidState
	KindForbidden
	KindUnauthorized
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindForbidden:
		return "FORBIDDEN"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindUnavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error is the application error carried from repositories and use cases
// up to the HTTP layer.
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

// Is matches sentinel errors by identity of kind and message so that a
// wrapped copy of a sentinel still satisfies errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewValidationError reports missing or malformed input.
func NewValidationError(message string) *Error {
	return newError(KindValidation, message)
}

// NewForbiddenError reports a role or ownership mismatch.
func NewForbiddenError(message string) *Error {
	return newError(KindForbidden, message)
}

// Unavailable wraps a persistence failure.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindUnavailable, Message: op, Err: err}
}

// KindOf returns the kind of err, KindInternal when err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

var (
	ErrPasswordTooLong    = newError(KindValidation, "password must be at most 72 bytes")
	ErrInvalidClipPath    = newError(KindValidation, "clip path must be under the editor's upload prefix")
	ErrInvalidRole        = newError(KindValidation, "role must be either editor or creator")
	ErrInvalidAction      = newError(KindValidation, "action must be accept or pass")
	ErrEmptyMessage       = newError(KindValidation, "message cannot be empty")
	ErrMessageTooLong     = newError(KindValidation, "message is too long")
	ErrClipNotOwned       = newError(KindValidation, "clip does not belong to editor")
	ErrStorageUnavailable = newError(KindUnavailable, "clip storage is not configured")

	ErrUserNotFound         = newError(KindNotFound, "user not found")
	ErrSessionNotFound      = newError(KindUnauthorized, "session not found")
	ErrCreatorNotFound      = newError(KindNotFound, "creator profile not found")
	ErrEditorNotFound       = newError(KindNotFound, "editor not found")
	ErrClipNotFound         = newError(KindNotFound, "clip not found")
	ErrMatchRequestNotFound = newError(KindNotFound, "request not found")
	ErrRequestNotPending    = newError(KindNotFound, "request not found or not pending")
	ErrMatchNotFound        = newError(KindNotFound, "match not found")
	ErrEmailTaken           = newError(KindConflict, "email already registered")
	ErrProfileAlreadyExists = newError(KindConflict, "profile already exists")
	ErrRequestExists        = newError(KindConflict, "request already exists")
	ErrInvalidTransition    = newError(KindInvalidState, "request not in correct state")
	ErrMatchNotConfirmed    = newError(KindForbidden, "chat only available for confirmed matches")
	ErrAccessDenied         = newError(KindForbidden, "access denied")
	ErrInvalidCredentials   = newError(KindUnauthorized, "invalid credentials")
	ErrInvalidToken         = newError(KindUnauthorized, "invalid or expired token")
	ErrSessionExpired       = newError(KindUnauthorized, "session expired")
)
