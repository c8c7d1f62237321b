package dispatcher

import "errors"

var (
	// ErrNoHandler is returned for an action no namespace accepts.
	ErrNoHandler = errors.New("dispatch: no handler")

	// ErrActionCancelled is returned when a pre-dispatch hook vetoes an action.
	ErrActionCancelled = errors.New("dispatch: cancelled by hook")

	// ErrPanic wraps a panic recovered from a handler.
	ErrPanic = errors.New("dispatch: handler panicked")

	// ErrInvalidAction is returned for an action without a name.
	ErrInvalidAction = errors.New("dispatch: action has no name")
)
