package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrDivisionByZero indicates the divisor of a pending division is zero.
	// The engine state is left unchanged.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrOverflow indicates a result is not a finite number.
	// The engine state is left unchanged.
	ErrOverflow = errors.New("result out of range")

	// ErrInvalidDigit indicates a rune outside '0'..'9' was passed to Digit.
	ErrInvalidDigit = errors.New("invalid digit")

	// ErrInvalidOperator indicates an operator other than the four arithmetic ones.
	ErrInvalidOperator = errors.New("invalid operator")

	// ErrInvalidSeparator indicates a decimal separator other than ',' or '.'.
	ErrInvalidSeparator = errors.New("invalid decimal separator")

	// ErrInvariant indicates the engine reached a state it should never be in,
	// such as a held numeral that does not parse.
	ErrInvariant = errors.New("engine invariant violated")
)
