package engine

import (
	"fmt"
	"math"
	"strings"
)

// State is the complete mutable state of an Engine.
type State struct {
	// Current is the number being typed or the last result.
	Current string

	// Operand is the number captured when an operator was pressed.
	// Empty means no operand is pending.
	Operand string

	// Operator is the pending operation. None iff Operand is empty.
	Operator Operator

	// AwaitingFresh is true when the next digit starts a new number.
	AwaitingFresh bool
}

// initialState returns the state of a freshly constructed engine.
func initialState() State {
	return State{Current: "0"}
}

// Projection is the read-only view callers render from.
type Projection struct {
	// Display is the current entry.
	Display string

	// PendingExpression is "" when no operator is pending,
	// otherwise "<operand> <symbol>".
	PendingExpression string
}

// Evaluation describes one completed binary operation.
type Evaluation struct {
	Left     string
	Operator Operator
	Right    string
	Result   string
}

// Engine is the calculator state machine.
type Engine struct {
	state      State
	separator  rune
	symbols    SymbolSet
	onEvaluate func(Evaluation)
}

// New creates an engine in its initial state.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		state:     initialState(),
		separator: DefaultSeparator,
		symbols:   DefaultSymbols(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if !ValidSeparator(e.separator) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeparator, e.separator)
	}
	if err := e.symbols.Validate(); err != nil {
		return nil, fmt.Errorf("engine symbols: %w", err)
	}

	return e, nil
}

// OnEvaluate replaces the function called after every successful
// evaluation. A nil fn removes it.
func (e *Engine) OnEvaluate(fn func(Evaluation)) {
	e.onEvaluate = fn
}

// Separator returns the decimal separator.
func (e *Engine) Separator() rune {
	return e.separator
}

// Symbols returns the operator glyphs.
func (e *Engine) Symbols() SymbolSet {
	return e.symbols
}

// SetSymbols replaces the operator glyphs.
func (e *Engine) SetSymbols(symbols SymbolSet) error {
	if err := symbols.Validate(); err != nil {
		return err
	}
	e.symbols = symbols
	return nil
}

// SetSeparator switches the decimal separator, rewriting the numerals
// already held so they stay parseable.
func (e *Engine) SetSeparator(sep rune) error {
	if !ValidSeparator(sep) {
		return fmt.Errorf("%w: %q", ErrInvalidSeparator, sep)
	}
	if sep == e.separator {
		return nil
	}

	old := string(e.separator)
	e.state.Current = strings.Replace(e.state.Current, old, string(sep), 1)
	e.state.Operand = strings.Replace(e.state.Operand, old, string(sep), 1)
	e.separator = sep
	return nil
}

// Projection returns the current view of the engine.
func (e *Engine) Projection() Projection {
	p := Projection{Display: e.state.Current}
	if e.hasPending() {
		p.PendingExpression = e.state.Operand + " " + e.symbols.Symbol(e.state.Operator)
	}
	return p
}

// Snapshot returns a copy of the engine state.
func (e *Engine) Snapshot() State {
	return e.state
}

// Restore replaces the engine state. The state is validated first and
// left untouched if it is inconsistent.
func (e *Engine) Restore(s State) error {
	if err := e.validateState(s); err != nil {
		return err
	}
	e.state = s
	return nil
}

// Validate checks the engine invariants: the current entry is a well-formed
// numeral, and an operand is pending exactly when an operator is.
func (e *Engine) Validate() error {
	return e.validateState(e.state)
}

func (e *Engine) validateState(s State) error {
	if !validNumeral(s.Current, e.separator) {
		return fmt.Errorf("%w: current entry %q", ErrInvariant, s.Current)
	}
	if (s.Operand == "") != (s.Operator == None) {
		return fmt.Errorf("%w: operand %q with operator %s", ErrInvariant, s.Operand, s.Operator)
	}
	if s.Operand != "" && !validNumeral(s.Operand, e.separator) {
		return fmt.Errorf("%w: pending operand %q", ErrInvariant, s.Operand)
	}
	if s.Operator != None && !s.Operator.Valid() {
		return fmt.Errorf("%w: operator %s", ErrInvariant, s.Operator)
	}
	return nil
}

// hasPending reports whether a binary operation is waiting for its
// second operand.
func (e *Engine) hasPending() bool {
	return e.state.Operand != "" && e.state.Operator != None
}

// Digit enters a single digit '0'..'9'.
func (e *Engine) Digit(d rune) (Projection, error) {
	if !isDigit(d) {
		return e.Projection(), fmt.Errorf("%w: %q", ErrInvalidDigit, d)
	}

	switch {
	case e.state.AwaitingFresh:
		e.state.Current = string(d)
		e.state.AwaitingFresh = false
	case e.state.Current == "0":
		e.state.Current = string(d)
	case e.state.Current == "-0":
		e.state.Current = "-" + string(d)
	default:
		e.state.Current += string(d)
	}

	return e.Projection(), nil
}

// Operator sets the pending operation. If a complete operation is already
// pending and a second operand has been typed, it is evaluated first so
// operations chain left to right.
//
// On ErrDivisionByZero or ErrOverflow the state is left unchanged and the
// new operator is not recorded.
func (e *Engine) Operator(op Operator) (Projection, error) {
	if !op.Valid() {
		return e.Projection(), fmt.Errorf("%w: %s", ErrInvalidOperator, op)
	}

	if e.hasPending() && !e.state.AwaitingFresh {
		if err := e.evaluate(); err != nil {
			return e.Projection(), err
		}
	}

	e.state.Operand = e.state.Current
	e.state.Operator = op
	e.state.AwaitingFresh = true

	return e.Projection(), nil
}

// Equals evaluates the pending operation and clears it, leaving the result
// on display. It is a no-op when nothing is pending.
func (e *Engine) Equals() (Projection, error) {
	if !e.hasPending() {
		return e.Projection(), nil
	}

	if err := e.evaluate(); err != nil {
		return e.Projection(), err
	}

	e.state.Operand = ""
	e.state.Operator = None
	e.state.AwaitingFresh = true

	return e.Projection(), nil
}

// evaluate applies the pending operator to the pending operand and the
// current entry. The state is only modified on success.
func (e *Engine) evaluate() error {
	left, err := ParseNumber(e.state.Operand, e.separator)
	if err != nil {
		return err
	}
	right, err := ParseNumber(e.state.Current, e.separator)
	if err != nil {
		return err
	}

	if e.state.Operator == Divide && right == 0 {
		return ErrDivisionByZero
	}

	result := e.state.Operator.apply(left, right)
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return ErrOverflow
	}

	ev := Evaluation{
		Left:     e.state.Operand,
		Operator: e.state.Operator,
		Right:    e.state.Current,
		Result:   FormatNumber(result, e.separator),
	}
	e.state.Current = ev.Result

	if e.onEvaluate != nil {
		e.onEvaluate(ev)
	}
	return nil
}

// Decimal adds the decimal separator to the current entry. Starting a new
// number yields "0" followed by the separator. A second separator is ignored.
func (e *Engine) Decimal() Projection {
	sep := string(e.separator)

	if e.state.AwaitingFresh {
		e.state.Current = "0" + sep
		e.state.AwaitingFresh = false
	} else if !strings.Contains(e.state.Current, sep) {
		e.state.Current += sep
	}

	return e.Projection()
}

// Clear resets the engine to its initial state.
func (e *Engine) Clear() Projection {
	e.state = initialState()
	return e.Projection()
}

// ClearEntry resets only the current entry, keeping any pending operation.
func (e *Engine) ClearEntry() Projection {
	e.state.Current = "0"
	return e.Projection()
}

// Backspace removes the last character of the current entry. The entry
// never becomes empty: removing the last digit leaves "0".
func (e *Engine) Backspace() Projection {
	runes := []rune(e.state.Current)
	if len(runes) > 1 {
		e.state.Current = string(runes[:len(runes)-1])
	} else {
		e.state.Current = "0"
	}

	if e.state.Current == "-" || e.state.Current == "-0" {
		e.state.Current = "0"
	}

	return e.Projection()
}
