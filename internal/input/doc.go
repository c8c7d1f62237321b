// Package input turns user input into calculator actions.
//
// Raw terminal events are converted to key.Event values (package key),
// looked up in the keymap registry (package keymap) and emitted as Action
// values naming a command such as "calc.digit" or "calc.equals". The
// dispatcher executes actions; the input package itself holds no
// calculator state.
//
// # Actions
//
// Action names are dotted: the namespace before the first dot selects the
// handler. The calc namespace covers the calculator keys:
//
//	calc.digit       args: digit = "0".."9"
//	calc.operator    args: operator = add | subtract | multiply | divide
//	calc.equals
//	calc.decimal
//	calc.clear
//	calc.clearEntry
//	calc.backspace
//
// The app namespace covers the program itself (app.quit, app.toggleHistory).
package input
