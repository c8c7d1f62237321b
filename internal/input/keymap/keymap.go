package keymap

import (
	"errors"
	"fmt"

	"github.com/dshills/keycalc/internal/input/key"
)

var (
	// ErrEmptyKeys is returned for a binding without a key spec.
	ErrEmptyKeys = errors.New("keymap: binding has no keys")

	// ErrEmptyAction is returned for a binding without an action.
	ErrEmptyAction = errors.New("keymap: binding has no action")
)

// Keymap is a named set of bindings registered and removed together.
type Keymap struct {
	Name string

	// Source records where the bindings came from, "default" or "user".
	Source string

	// Priority ranks keymaps. Bindings of a higher-priority keymap shadow
	// the same keys in lower ones.
	Priority int

	Bindings []Binding
}

// AddBinding appends b and returns k.
func (k *Keymap) AddBinding(b Binding) *Keymap {
	k.Bindings = append(k.Bindings, b)
	return k
}

// Validate reports the first binding that lacks keys or an action, or
// whose key spec does not parse.
func (k *Keymap) Validate() error {
	_, err := k.resolve()
	return err
}

// resolvedBinding pairs a binding with the canonical spec of its key.
type resolvedBinding struct {
	Binding
	spec string
}

func (k *Keymap) resolve() ([]resolvedBinding, error) {
	out := make([]resolvedBinding, 0, len(k.Bindings))
	for i, b := range k.Bindings {
		if b.Keys == "" {
			return nil, fmt.Errorf("binding %d: %w", i, ErrEmptyKeys)
		}
		if b.Action == "" {
			return nil, fmt.Errorf("binding %d (%s): %w", i, b.Keys, ErrEmptyAction)
		}
		ev, err := key.Parse(b.Keys)
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i, b.Keys, err)
		}
		out = append(out, resolvedBinding{Binding: b, spec: ev.Normalize().String()})
	}
	return out, nil
}
