package input

import (
	"fmt"
	"strings"
)

// ActionSource indicates the origin of an action.
type ActionSource uint8

const (
	// SourceKeyboard indicates the action originated from keyboard input.
	SourceKeyboard ActionSource = iota
	// SourceMouse indicates the action originated from a click on an on-screen button.
	SourceMouse
	// SourcePlugin indicates the action originated from a Lua script.
	SourcePlugin
	// SourceAPI indicates the action originated from an API call.
	SourceAPI
)

// String returns a string representation of the action source.
func (s ActionSource) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceMouse:
		return "mouse"
	case SourcePlugin:
		return "plugin"
	case SourceAPI:
		return "api"
	default:
		return "unknown"
	}
}

// ActionArgs holds arguments for an action.
type ActionArgs map[string]any

// Get retrieves an argument.
func (a ActionArgs) Get(key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a[key]
	return v, ok
}

// GetString retrieves a string argument. Runes are converted.
func (a ActionArgs) GetString(key string) string {
	v, ok := a.Get(key)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case rune:
		return string(s)
	case fmt.Stringer:
		return s.String()
	}
	return ""
}

// Action represents a command to be executed by the dispatcher.
type Action struct {
	// Name is the command identifier (e.g., "calc.digit", "app.quit").
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource
}

// WithSource returns a copy of the action with the specified source.
func (a Action) WithSource(src ActionSource) Action {
	a.Source = src
	return a
}

// Namespace returns the part of the name before the first dot.
func (a Action) Namespace() string {
	for i := 0; i < len(a.Name); i++ {
		if a.Name[i] == '.' {
			return a.Name[:i]
		}
	}
	return a.Name
}

// String returns the action name with its arguments.
func (a Action) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	return a.Name + strings.TrimPrefix(fmt.Sprint(map[string]any(a.Args)), "map")
}
