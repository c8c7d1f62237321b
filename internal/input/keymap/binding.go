package keymap

import (
	"maps"

	"github.com/dshills/keycalc/internal/input"
)

// Binding maps one key press to an action.
type Binding struct {
	// Keys is the key spec: "7", "Enter", "KP+", "C-c", "<C-c>" or "Ctrl+C".
	Keys string

	// Action is the action name, such as "calc.digit" or "app.quit".
	Action string

	// Args are passed with the action.
	Args map[string]any

	// Description and Category label the binding in the key help panel.
	Description string
	Category    string

	// Priority breaks ties between bindings for the same key within
	// keymaps of equal priority. Higher wins.
	Priority int
}

// ToAction returns the action this binding triggers. Args are copied so
// the caller may modify them.
func (b Binding) ToAction() input.Action {
	a := input.Action{Name: b.Action, Source: input.SourceKeyboard}
	if len(b.Args) > 0 {
		a.Args = make(input.ActionArgs, len(b.Args))
		maps.Copy(a.Args, b.Args)
	}
	return a
}

// Section is a titled group of bindings.
type Section struct {
	Title    string
	Bindings []Binding
}

// Sections groups bindings by Category, keeping the order in which each
// category first appears. Bindings without a category go under "Other".
func Sections(bindings []Binding) []Section {
	var out []Section
	at := make(map[string]int)
	for _, b := range bindings {
		title := b.Category
		if title == "" {
			title = "Other"
		}
		i, ok := at[title]
		if !ok {
			i = len(out)
			at[title] = i
			out = append(out, Section{Title: title})
		}
		out[i].Bindings = append(out[i].Bindings, b)
	}
	return out
}
