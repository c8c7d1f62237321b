// Package engine provides the calculator state machine for keycalc.
//
// The engine holds the number being typed, the operand and operator captured
// when an operator key was pressed, and a flag telling whether the next digit
// starts a new number. Numbers are accumulated as text so the exact digit
// sequence and decimal separator the user typed are preserved; they are only
// parsed when an operation is evaluated.
//
// # Model
//
// The engine is a strict two-operand, immediate-evaluation calculator.
// There is no operator precedence: pressing an operator while a complete
// binary operation is pending evaluates it first, so
//
//	3 + 4 × 2 =
//
// displays 14.
//
// # Usage
//
//	e, _ := engine.New()
//	e.Digit('7')
//	e.Operator(engine.Add)
//	e.Digit('3')
//	p, err := e.Equals()
//	// p.Display == "10"
//
// Action methods return the updated Projection. Callers re-render from it.
//
// # Thread Safety
//
// An Engine is not safe for concurrent use. Callers serialize actions, one
// per input event.
package engine
