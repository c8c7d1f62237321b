package history

import (
	"errors"
	"testing"
	"time"
)

func TestTapeRecord(t *testing.T) {
	tape := NewTape(3)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tape.now = func() time.Time { return fixed }

	tape.Record(Entry{Left: "3", Symbol: "+", Right: "4", Result: "7"})

	if tape.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tape.Len())
	}
	last, err := tape.Last()
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	if last.String() != "3 + 4 = 7" {
		t.Errorf("String() = %q, want %q", last.String(), "3 + 4 = 7")
	}
	if !last.Recorded.Equal(fixed) {
		t.Errorf("Recorded = %v, want %v", last.Recorded, fixed)
	}
}

func TestTapeBounded(t *testing.T) {
	tape := NewTape(2)
	for _, r := range []string{"1", "2", "3"} {
		tape.Record(Entry{Result: r})
	}

	entries := tape.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(Entries()) = %d, want 2", len(entries))
	}
	if entries[0].Result != "2" || entries[1].Result != "3" {
		t.Errorf("Entries() = %v, want results 2, 3", entries)
	}
}

func TestTapeRecent(t *testing.T) {
	tape := NewTape(10)
	for _, r := range []string{"1", "2", "3"} {
		tape.Record(Entry{Result: r})
	}

	recent := tape.Recent(2)
	if len(recent) != 2 || recent[0].Result != "3" || recent[1].Result != "2" {
		t.Errorf("Recent(2) = %v, want results 3, 2", recent)
	}
	if got := len(tape.Recent(10)); got != 3 {
		t.Errorf("len(Recent(10)) = %d, want 3", got)
	}
	if got := len(tape.Recent(-1)); got != 0 {
		t.Errorf("len(Recent(-1)) = %d, want 0", got)
	}
}

func TestTapeEmpty(t *testing.T) {
	tape := NewTape(0)
	if _, err := tape.Last(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Last() error = %v, want ErrEmpty", err)
	}

	tape.Record(Entry{Result: "1"})
	tape.Clear()
	if tape.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", tape.Len())
	}
}

func TestTapeEntriesIsCopy(t *testing.T) {
	tape := NewTape(5)
	tape.Record(Entry{Result: "1"})

	entries := tape.Entries()
	entries[0].Result = "changed"

	last, _ := tape.Last()
	if last.Result != "1" {
		t.Error("mutating Entries() result changed the tape")
	}
}
