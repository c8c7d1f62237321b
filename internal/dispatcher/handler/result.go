package handler

import (
	"fmt"
	"maps"
)

// ResultStatus is the outcome of one dispatched action.
type ResultStatus uint8

const (
	StatusOK ResultStatus = iota
	// StatusNoOp means the action was accepted but changed nothing.
	StatusNoOp
	StatusError
	// StatusCancelled means the action never reached its handler.
	StatusCancelled
)

var statusNames = [...]string{
	StatusOK:        "ok",
	StatusNoOp:      "no-op",
	StatusError:     "error",
	StatusCancelled: "cancelled",
}

func (s ResultStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Result is what a handler reports back to the caller of Dispatch.
type Result struct {
	Status ResultStatus
	Error  error

	// Message is user-facing text. An error result with a message is
	// shown as a notice.
	Message string

	// Data carries handler output such as the calculator projection.
	Data map[string]any
}

// Success returns an empty OK result.
func Success() Result { return Result{Status: StatusOK} }

// SuccessWithData returns an OK result holding one value.
func SuccessWithData(key string, value any) Result {
	return Success().WithData(key, value)
}

// NoOp returns a result for an action that changed nothing.
func NoOp() Result { return Result{Status: StatusNoOp} }

// Error returns a failed result.
func Error(err error) Result { return Result{Status: StatusError, Error: err} }

// Errorf returns a failed result with a formatted error.
func Errorf(format string, args ...any) Result {
	return Error(fmt.Errorf(format, args...))
}

// Cancelled returns a result for an action that was not run.
func Cancelled(err error) Result { return Result{Status: StatusCancelled, Error: err} }

// IsError reports whether the action failed.
func (r Result) IsError() bool { return r.Status == StatusError }

// WithMessage returns r with Message set.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

// WithData returns r with key set in a copy of its Data, leaving r's map
// untouched.
func (r Result) WithData(key string, value any) Result {
	data := maps.Clone(r.Data)
	if data == nil {
		data = make(map[string]any, 1)
	}
	data[key] = value
	r.Data = data
	return r
}

// GetData returns the value stored under key.
func (r Result) GetData(key string) (any, bool) {
	v, ok := r.Data[key]
	return v, ok
}

// GetDataString returns the string stored under key, or "".
func (r Result) GetDataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}

// GetDataBool returns the bool stored under key, or false.
func (r Result) GetDataBool(key string) bool {
	b, _ := r.Data[key].(bool)
	return b
}
