package input

// Calculator action names.
const (
	ActionDigit      = "calc.digit"
	ActionOperator   = "calc.operator"
	ActionEquals     = "calc.equals"
	ActionDecimal    = "calc.decimal"
	ActionClear      = "calc.clear"
	ActionClearEntry = "calc.clearEntry"
	ActionBackspace  = "calc.backspace"
)

// Application action names.
const (
	ActionQuit          = "app.quit"
	ActionToggleHistory = "app.toggleHistory"
	ActionToggleHelp    = "app.toggleHelp"
	ActionDismiss       = "app.dismiss"
)

// Argument keys.
const (
	ArgDigit    = "digit"
	ArgOperator = "operator"
)

// NewAction creates an action without arguments.
func NewAction(name string) Action {
	return Action{Name: name}
}

// DigitAction creates a calc.digit action.
func DigitAction(d rune) Action {
	return Action{Name: ActionDigit, Args: ActionArgs{ArgDigit: string(d)}}
}

// OperatorAction creates a calc.operator action. op is an operator
// identifier such as "add" or "divide".
func OperatorAction(op string) Action {
	return Action{Name: ActionOperator, Args: ActionArgs{ArgOperator: op}}
}
