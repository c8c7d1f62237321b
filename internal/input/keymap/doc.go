// Package keymap provides key binding management for keycalc.
//
// The keymap system maps single key presses to calculator actions. Keymaps
// are named collections of bindings registered in a Registry, which
// resolves a key event to the action of the highest-precedence binding.
//
// # Binding Precedence
//
// When multiple bindings match a key, precedence is determined by:
//  1. Keymap priority (user keymaps are registered above the defaults)
//  2. Binding priority (higher wins)
//  3. Registration order (later wins)
//
// # Key Specs
//
// Keys can be specified in multiple formats:
//
//	"7"        - Single character
//	"Enter"    - Named key
//	"KP+"      - Keypad key
//	"C-c"      - Ctrl+C (Vim notation)
//	"<C-c>"    - Ctrl+C (angle bracket notation)
//	"Ctrl+C"   - Ctrl+C (readable notation)
//
// # Usage
//
//	registry := keymap.NewRegistry()
//	if err := keymap.LoadDefaults(registry); err != nil {
//	    return err
//	}
//
//	if action, ok := registry.Lookup(ev); ok {
//	    dispatcher.Dispatch(ctx, action)
//	}
package keymap
