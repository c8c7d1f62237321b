// Package key provides key event types and parsing for the input system.
//
// This package defines the types used to describe a single key press:
//
//   - Key: identifies a special key, a keypad key, or a character (KeyRune)
//   - Modifier: modifier keys held during the press (Ctrl, Alt, Shift, Meta)
//   - Event: one key press with its modifiers and timestamp
//
// # Key Specifications
//
// Bindings name keys with specification strings, parsed by Parse:
//
//   - Characters: "7", "+", "*", ",", "q"
//   - Special keys: "Enter", "Escape", "Backspace", "Delete"
//   - Keypad keys: "KP0".."KP9", "KP+", "KP-", "KP*", "KP/", "KP.", "KPEnter"
//   - With modifiers: "Ctrl+C", "<C-c>", "<A-BS>"
package key
