package engine

import (
	"fmt"
	"strings"
)

// Operator is a binary arithmetic operation.
type Operator uint8

const (
	// None means no operation is pending.
	None Operator = iota
	Add
	Subtract
	Multiply
	Divide
)

// String returns the operator's identifier.
func (op Operator) String() string {
	switch op {
	case None:
		return "none"
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	default:
		return fmt.Sprintf("Operator(%d)", op)
	}
}

// Valid reports whether op is one of the four arithmetic operators.
func (op Operator) Valid() bool {
	return op >= Add && op <= Divide
}

// apply computes a op b. The caller checks for a zero divisor.
func (op Operator) apply(a, b float64) float64 {
	switch op {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		return a / b
	default:
		return b
	}
}

// ParseOperator parses an operator identifier ("add", "subtract",
// "multiply", "divide"). Matching is case-insensitive.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add":
		return Add, nil
	case "subtract":
		return Subtract, nil
	case "multiply":
		return Multiply, nil
	case "divide":
		return Divide, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrInvalidOperator, s)
	}
}

// SymbolSet maps operators to the glyphs shown in the pending expression.
type SymbolSet struct {
	Add      string
	Subtract string
	Multiply string
	Divide   string
}

// DefaultSymbols returns the glyphs used when none are configured.
func DefaultSymbols() SymbolSet {
	return SymbolSet{
		Add:      "+",
		Subtract: "-",
		Multiply: "×",
		Divide:   "÷",
	}
}

// Symbol returns the glyph for op, or "" for None.
func (s SymbolSet) Symbol(op Operator) string {
	switch op {
	case Add:
		return s.Add
	case Subtract:
		return s.Subtract
	case Multiply:
		return s.Multiply
	case Divide:
		return s.Divide
	default:
		return ""
	}
}

// Validate checks that every glyph is set and no two are equal.
func (s SymbolSet) Validate() error {
	seen := make(map[string]Operator, 4)
	for _, op := range []Operator{Add, Subtract, Multiply, Divide} {
		sym := s.Symbol(op)
		if sym == "" {
			return fmt.Errorf("empty symbol for %s", op)
		}
		if prev, ok := seen[sym]; ok {
			return fmt.Errorf("symbol %q used for both %s and %s", sym, prev, op)
		}
		seen[sym] = op
	}
	return nil
}
