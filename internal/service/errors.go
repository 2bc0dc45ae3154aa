package service

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConfiguration = errors.New("configuration error")
)

// Domain errors with fixed messages.
var (
	ErrInvalidToken       = &Error{kind: ErrUnauthorized, msg: "Invalid token"}
	ErrMissingSecret      = &Error{kind: ErrConfiguration, msg: "Token generation failed: Server configuration error"}
	ErrUserExists         = &Error{kind: ErrValidation, msg: "User already exists"}
	ErrInvalidCredentials = &Error{kind: ErrValidation, msg: "Invalid email or password"}
	ErrUserNotFound       = &Error{kind: ErrNotFound, msg: "User not found"}
	ErrTaskNotFound       = &Error{kind: ErrNotFound, msg: "Task not found"}
	ErrDashboardForbidden = &Error{kind: ErrForbidden, msg: "Forbidden: Cannot access another user's dashboard"}
)

// Error carries a client-facing message and its category.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func validationError(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}
