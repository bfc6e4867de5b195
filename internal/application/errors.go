package application

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is against these to classify a failure.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrAuth            = errors.New("authentication failed")
	ErrUnauthenticated = errors.New("login required")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
)

// Error is a domain failure whose message is safe to show to the user.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrEmptyUsername = &Error{Kind: ErrValidation, Message: "Username is required"}
	ErrEmptyPassword = &Error{Kind: ErrValidation, Message: "Password is required"}
	ErrEmptyTitle    = &Error{Kind: ErrValidation, Message: "Title is required"}
	ErrUnknownUser   = &Error{Kind: ErrAuth, Message: "Incorrect username"}
	ErrBadPassword   = &Error{Kind: ErrAuth, Message: "Incorrect password"}
	ErrLoginRequired = &Error{Kind: ErrUnauthenticated, Message: "Login required"}
	ErrNotAuthor     = &Error{Kind: ErrForbidden, Message: "You are not the author of this post."}
)

func usernameTaken(username string) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf("User %s is already registered.", username)}
}

func postNotFound(id int64) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("Post id %d doesn't exist.", id)}
}

// Message returns the user-facing text of a domain error, or "" for
// anything else (storage failures and the like).
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
