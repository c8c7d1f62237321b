package key

import (
	"fmt"
	"time"
	"unicode"
)

// Event represents a single key press event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{
		Key:       KeyRune,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{
		Key:       key,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune)
}

// Normalize returns the event in the form bindings are matched against.
// Shift is dropped from character events since it is already reflected
// in the character itself, and the timestamp is cleared.
func (e Event) Normalize() Event {
	n := Event{Key: e.Key, Rune: e.Rune, Modifiers: e.Modifiers}
	if n.IsRune() {
		n.Modifiers = n.Modifiers.Without(ModShift)
	}
	return n
}

// Equals returns true if two events represent the same key press.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key &&
		e.Rune == other.Rune &&
		e.Modifiers == other.Modifiers
}

// Digit returns the ASCII digit a key press stands for, from either the
// main row or the keypad. Digits from other scripts are not reported.
func (e Event) Digit() (rune, bool) {
	if e.Modifiers.Without(ModShift) != ModNone {
		return 0, false
	}
	if e.Key >= KeyKP0 && e.Key <= KeyKP9 {
		return '0' + rune(e.Key-KeyKP0), true
	}
	if e.Key == KeyRune && e.Rune >= '0' && e.Rune <= '9' {
		return e.Rune, true
	}
	return 0, false
}

// String returns the canonical specification for the event, which Parse
// accepts. Examples: "7", "+", "Enter", "KP5", "<C-c>", "<A-BS>".
func (e Event) String() string {
	mods := e.Modifiers
	if e.IsRune() {
		mods = mods.Without(ModShift)
	}

	if mods == ModNone {
		if e.Key == KeyRune {
			if e.Rune == ' ' {
				return "Space"
			}
			return string(e.Rune)
		}
		return e.Key.String()
	}

	var name string
	switch e.Key {
	case KeyRune:
		if e.Rune == ' ' {
			name = "Space"
		} else {
			name = string(e.Rune)
		}
	case KeyEscape:
		name = "Esc"
	case KeyEnter:
		name = "CR"
	case KeyBackspace:
		name = "BS"
	case KeyDelete:
		name = "Del"
	default:
		name = e.Key.String()
	}
	return "<" + mods.shortString() + "-" + name + ">"
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s}",
		e.Key.String(), e.Rune, e.Modifiers.String())
}
