package history

import (
	"errors"
	"sync"
	"time"
)

// DefaultMaxEntries is the tape length used when none is configured.
const DefaultMaxEntries = 50

// ErrEmpty is returned by Last on an empty tape.
var ErrEmpty = errors.New("history is empty")

// Entry is one completed calculation.
type Entry struct {
	Left     string
	Symbol   string
	Right    string
	Result   string
	Recorded time.Time
}

// String renders the entry as "left symbol right = result".
func (e Entry) String() string {
	return e.Left + " " + e.Symbol + " " + e.Right + " = " + e.Result
}

// Tape is a bounded list of entries. It is safe for concurrent use.
type Tape struct {
	mu sync.Mutex

	entries    []Entry
	maxEntries int

	// now is replaceable for tests.
	now func() time.Time
}

// NewTape creates a tape holding at most maxEntries entries.
func NewTape(maxEntries int) *Tape {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Tape{
		entries:    make([]Entry, 0, maxEntries),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Record appends an entry, stamping it if Recorded is zero.
func (t *Tape) Record(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e.Recorded.IsZero() {
		e.Recorded = t.now()
	}

	if len(t.entries) >= t.maxEntries {
		copy(t.entries, t.entries[1:])
		t.entries = t.entries[:len(t.entries)-1]
	}
	t.entries = append(t.entries, e)
}

// Entries returns a copy of the tape, oldest first.
func (t *Tape) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Recent returns up to n entries, newest first.
func (t *Tape) Recent(n int) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	n = max(0, min(n, len(t.entries)))
	out := make([]Entry, 0, n)
	for i := len(t.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, t.entries[i])
	}
	return out
}

// Last returns the most recent entry.
func (t *Tape) Last() (Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) == 0 {
		return Entry{}, ErrEmpty
	}
	return t.entries[len(t.entries)-1], nil
}

// Len returns the number of entries.
func (t *Tape) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Clear removes all entries.
func (t *Tape) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = t.entries[:0]
}
