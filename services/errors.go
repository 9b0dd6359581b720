package services

import "errors"

// Sentinel errors for the four caller-visible failure kinds. Handlers map
// these to HTTP codes; services never write status codes themselves.
var (
	ErrBoardNotFound  = errors.New("board not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrTaskNotFound   = errors.New("task not found")
	ErrUserNotFound   = errors.New("user not found")

	ErrAccessDenied = errors.New("access denied")
	ErrNotOwner     = errors.New("only the board owner may perform this action")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// ValidationError rejects a request before any write happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(msg string) error { return &ValidationError{Msg: msg} }

// DueDateRequiredError is the workflow gate rejection: a task may not enter
// In Progress without a due date. It carries a machine-readable flag so the
// caller can prompt for a date and resubmit the same move with it supplied.
type DueDateRequiredError struct{}

func (e *DueDateRequiredError) Error() string { return "due date required" }

// Message is the human-readable half of the gate rejection payload.
func (e *DueDateRequiredError) Message() string {
	return "Please set a due date before starting work on this task"
}
