package keymap

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/dshills/keycalc/internal/input"
	"github.com/dshills/keycalc/internal/input/key"
)

// ErrNilKeymap is returned when registering a nil keymap.
var ErrNilKeymap = errors.New("keymap: cannot register nil keymap")

// candidate is one registered binding for a key.
type candidate struct {
	binding Binding
	keymap  *Keymap
	seq     uint64
}

// beats reports whether c takes precedence over o: the higher keymap
// priority wins, then the higher binding priority, then the later
// registration.
func (c *candidate) beats(o *candidate) bool {
	if c.keymap.Priority != o.keymap.Priority {
		return c.keymap.Priority > o.keymap.Priority
	}
	if c.binding.Priority != o.binding.Priority {
		return c.binding.Priority > o.binding.Priority
	}
	return c.seq > o.seq
}

// Registry resolves key events against every registered keymap.
type Registry struct {
	mu      sync.RWMutex
	keymaps map[string]*Keymap
	byKey   map[string][]*candidate
	seq     uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		keymaps: make(map[string]*Keymap),
		byKey:   make(map[string][]*candidate),
	}
}

// Register adds km, replacing any keymap with the same name. Nothing is
// changed when a binding is invalid.
func (r *Registry) Register(km *Keymap) error {
	if km == nil {
		return ErrNilKeymap
	}
	resolved, err := km.resolve()
	if err != nil {
		return fmt.Errorf("keymap %q: %w", km.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(km.Name)
	r.keymaps[km.Name] = km
	for _, rb := range resolved {
		r.seq++
		r.byKey[rb.spec] = append(r.byKey[rb.spec], &candidate{binding: rb.Binding, keymap: km, seq: r.seq})
	}
	return nil
}

// Unregister removes the named keymap. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(name)
}

func (r *Registry) removeLocked(name string) {
	km, ok := r.keymaps[name]
	if !ok {
		return
	}
	delete(r.keymaps, name)

	for spec, cands := range r.byKey {
		cands = slices.DeleteFunc(cands, func(c *candidate) bool { return c.keymap == km })
		if len(cands) == 0 {
			delete(r.byKey, spec)
		} else {
			r.byKey[spec] = cands
		}
	}
}

// bestLocked returns the winning candidate for spec, or nil.
func (r *Registry) bestLocked(spec string) *candidate {
	var best *candidate
	for _, c := range r.byKey[spec] {
		if best == nil || c.beats(best) {
			best = c
		}
	}
	return best
}

// Lookup resolves a key event to the action of its winning binding.
func (r *Registry) Lookup(ev key.Event) (input.Action, bool) {
	spec := ev.Normalize().String()

	r.mu.RLock()
	best := r.bestLocked(spec)
	r.mu.RUnlock()

	if best == nil {
		return input.Action{}, false
	}
	return best.binding.ToAction(), true
}

// AllBindings returns the winning binding for every bound key, ordered by
// key spec. Shadowed bindings are left out.
func (r *Registry) AllBindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := slices.Sorted(maps.Keys(r.byKey))
	out := make([]Binding, 0, len(specs))
	for _, spec := range specs {
		out = append(out, r.bestLocked(spec).binding)
	}
	return out
}
