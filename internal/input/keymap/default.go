package keymap

import (
	"fmt"

	"github.com/dshills/keycalc/internal/input"
)

// Keymap names and priorities.
const (
	DefaultKeymapName = "default"
	UserKeymapName    = "user"

	DefaultPriority = 0
	UserPriority    = 10
)

// LoadDefaults loads the default keymap into the registry.
func LoadDefaults(r *Registry) error {
	return r.Register(DefaultKeymap())
}

// DefaultKeymap returns the built-in calculator bindings.
func DefaultKeymap() *Keymap {
	km := &Keymap{
		Name:     DefaultKeymapName,
		Priority: DefaultPriority,
		Source:   "default",
	}

	for d := '0'; d <= '9'; d++ {
		args := map[string]any{input.ArgDigit: string(d)}
		km.AddBinding(Binding{Keys: string(d), Action: input.ActionDigit, Args: args,
			Description: "Digit " + string(d), Category: "Digits"})
		km.AddBinding(Binding{Keys: fmt.Sprintf("KP%c", d), Action: input.ActionDigit, Args: args,
			Description: "Digit " + string(d), Category: "Digits"})
	}

	operators := []struct {
		keys []string
		op   string
		desc string
	}{
		{[]string{"+", "KP+"}, "add", "Add"},
		{[]string{"-", "KP-"}, "subtract", "Subtract"},
		{[]string{"*", "KP*"}, "multiply", "Multiply"},
		{[]string{"/", "KP/"}, "divide", "Divide"},
	}
	for _, o := range operators {
		for _, k := range o.keys {
			km.AddBinding(Binding{Keys: k, Action: input.ActionOperator,
				Args: map[string]any{input.ArgOperator: o.op}, Description: o.desc, Category: "Operators"})
		}
	}

	km.Bindings = append(km.Bindings,
		Binding{Keys: "Enter", Action: input.ActionEquals, Description: "Evaluate", Category: "Operators"},
		Binding{Keys: "KPEnter", Action: input.ActionEquals, Description: "Evaluate", Category: "Operators"},
		Binding{Keys: "=", Action: input.ActionEquals, Description: "Evaluate", Category: "Operators"},

		Binding{Keys: ".", Action: input.ActionDecimal, Description: "Decimal separator", Category: "Digits"},
		Binding{Keys: ",", Action: input.ActionDecimal, Description: "Decimal separator", Category: "Digits"},
		Binding{Keys: "KP.", Action: input.ActionDecimal, Description: "Decimal separator", Category: "Digits"},

		Binding{Keys: "Escape", Action: input.ActionClear, Description: "Clear all", Category: "Editing"},
		Binding{Keys: "Delete", Action: input.ActionClearEntry, Description: "Clear entry", Category: "Editing"},
		Binding{Keys: "Backspace", Action: input.ActionBackspace, Description: "Delete last digit", Category: "Editing"},

		Binding{Keys: "C-c", Action: input.ActionQuit, Description: "Quit", Category: "Application"},
		Binding{Keys: "q", Action: input.ActionQuit, Description: "Quit", Category: "Application"},
		Binding{Keys: "h", Action: input.ActionToggleHistory, Description: "Toggle history panel", Category: "Application"},
		Binding{Keys: "?", Action: input.ActionToggleHelp, Description: "Toggle key help", Category: "Application"},
	)

	return km
}

// UserKeymap builds the user keymap from configured bindings. User
// bindings take precedence over the defaults.
func UserKeymap(bindings []Binding) (*Keymap, error) {
	km := &Keymap{
		Name:     UserKeymapName,
		Priority: UserPriority,
		Source:   "user",
		Bindings: bindings,
	}
	if err := km.Validate(); err != nil {
		return nil, fmt.Errorf("user keymap: %w", err)
	}
	return km, nil
}
