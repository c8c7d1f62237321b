package renderer

import (
	"strings"
	"testing"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/engine/history"
	"github.com/dshills/keycalc/internal/input"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

func newTestRenderer(w, h int, opts Options) (*Renderer, *backend.NullBackend) {
	b := backend.NewNullBackend(w, h)
	return New(b, opts), b
}

func TestRenderDisplay(t *testing.T) {
	r, b := newTestRenderer(40, 20, DefaultOptions())
	r.Render(Frame{Projection: engine.Projection{Display: "15", PendingExpression: "12 +"}})

	pending := strings.TrimRight(b.Row(1), " ")
	if !strings.HasSuffix(strings.TrimSuffix(pending, "│"), "12 + ") {
		t.Errorf("pending row = %q, want right-aligned %q", b.Row(1), "12 +")
	}
	display := b.Row(2)
	if !strings.Contains(display, "15 │") {
		t.Errorf("display row = %q, want right-aligned 15", display)
	}
	if r.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1", r.FrameCount())
	}
}

func TestRenderKeypadLabels(t *testing.T) {
	opts := DefaultOptions()
	opts.Separator = '.'
	r, b := newTestRenderer(40, 20, opts)
	r.Render(Frame{Projection: engine.Projection{Display: "0"}})

	var screen strings.Builder
	for y := range 20 {
		screen.WriteString(b.Row(y))
		screen.WriteByte('\n')
	}
	for _, label := range []string{"C", "CE", "⌫", "÷", "×", "-", "+", "=", "."} {
		if !strings.Contains(screen.String(), label) {
			t.Errorf("screen missing button %q:\n%s", label, screen.String())
		}
	}
	if got := len(r.Layout().Buttons); got != 19 {
		t.Errorf("len(Buttons) = %d, want 19", got)
	}
}

func TestHitTest(t *testing.T) {
	r, _ := newTestRenderer(40, 20, DefaultOptions())
	r.Render(Frame{Projection: engine.Projection{Display: "0"}})

	find := func(label string) Button {
		t.Helper()
		for _, btn := range r.Layout().Buttons {
			if btn.Label == label {
				return btn
			}
		}
		t.Fatalf("no button %q", label)
		return Button{}
	}

	tests := []struct {
		label string
		want  input.Action
	}{
		{"7", input.DigitAction('7')},
		{"0", input.DigitAction('0')},
		{"×", input.OperatorAction("multiply")},
		{"=", input.NewAction(input.ActionEquals)},
		{",", input.NewAction(input.ActionDecimal)},
		{"CE", input.NewAction(input.ActionClearEntry)},
	}
	for _, tt := range tests {
		btn := find(tt.label)
		got, ok := r.HitTest(btn.Rect.Right-1, btn.Rect.Top)
		if !ok {
			t.Errorf("HitTest(%q) found nothing", tt.label)
			continue
		}
		if got.String() != tt.want.String() {
			t.Errorf("HitTest(%q) = %v, want %v", tt.label, got, tt.want)
		}
		if got.Source != input.SourceMouse {
			t.Errorf("HitTest(%q).Source = %v, want mouse", tt.label, got.Source)
		}
	}

	if _, ok := r.HitTest(1, 1); ok {
		t.Error("HitTest on the display should find nothing")
	}
	zero := find("0")
	if zero.Rect.Width() <= find("1").Rect.Width() {
		t.Error("0 button should span two columns")
	}
}

func TestHitTestBlockedByNotice(t *testing.T) {
	r, _ := newTestRenderer(40, 20, DefaultOptions())
	r.Render(Frame{Notice: "Cannot divide by zero!"})
	btn := r.Layout().Buttons[0]
	if _, ok := r.HitTest(btn.Rect.Left, btn.Rect.Top); ok {
		t.Error("HitTest should be disabled while a notice is shown")
	}
}

func TestRenderNotice(t *testing.T) {
	r, b := newTestRenderer(40, 20, DefaultOptions())
	r.Render(Frame{Projection: engine.Projection{Display: "5", PendingExpression: "5 ÷"}, Notice: "Cannot divide by zero!"})

	found := false
	for y := range 20 {
		if strings.Contains(b.Row(y), "Cannot divide by zero!") {
			found = true
			if !strings.Contains(b.Row(y+1), NoticeHint) {
				t.Errorf("row %d = %q, want hint", y+1, b.Row(y+1))
			}
		}
	}
	if !found {
		t.Error("notice text not drawn")
	}
}

func TestRenderHistory(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowHistory = true
	r, b := newTestRenderer(70, 20, opts)

	r.Render(Frame{
		Projection: engine.Projection{Display: "0"},
		History: []history.Entry{
			{Left: "1", Symbol: "+", Right: "1", Result: "2"},
			{Left: "2", Symbol: "×", Right: "3", Result: "6"},
		},
	})

	l := r.Layout()
	if l.History.IsEmpty() {
		t.Fatal("history panel not laid out")
	}
	if !strings.Contains(b.Row(0), "History") {
		t.Errorf("row 0 = %q, want panel title", b.Row(0))
	}
	if !strings.Contains(b.Row(1), "2 × 3 = 6") {
		t.Errorf("row 1 = %q, want newest entry first", b.Row(1))
	}
	if !strings.Contains(b.Row(2), "1 + 1 = 2") {
		t.Errorf("row 2 = %q, want older entry", b.Row(2))
	}
}

func TestRenderHelp(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowHelp = true
	r, b := newTestRenderer(70, 20, opts)

	r.Render(Frame{
		Projection: engine.Projection{Display: "0"},
		History:    []history.Entry{{Left: "1", Symbol: "+", Right: "1", Result: "2"}},
		Help:       []string{"Operators", "  +        Add"},
	})

	if r.Layout().History.IsEmpty() {
		t.Fatal("side panel not laid out for help")
	}
	if !strings.Contains(b.Row(0), "Keys") {
		t.Errorf("row 0 = %q, want help title", b.Row(0))
	}
	if !strings.Contains(b.Row(1), "Operators") || !strings.Contains(b.Row(2), "+        Add") {
		t.Errorf("rows 1-2 = %q, %q, want help lines", b.Row(1), b.Row(2))
	}
	if strings.Contains(b.Row(1)+b.Row(2), "1 + 1 = 2") {
		t.Error("history drawn while help is shown")
	}
}

func TestRenderHistoryHiddenWhenNarrow(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowHistory = true
	r, _ := newTestRenderer(MaxCalcWidth+5, 20, opts)
	r.Render(Frame{})
	if !r.Layout().History.IsEmpty() {
		t.Error("history panel should not fit")
	}
}

func TestRenderTooSmall(t *testing.T) {
	r, b := newTestRenderer(MinCalcWidth-1, 3, DefaultOptions())
	r.Render(Frame{Projection: engine.Projection{Display: "0"}})

	if !r.Layout().TooSmall {
		t.Error("Layout().TooSmall = false, want true")
	}
	if !strings.HasPrefix(b.Row(0), "terminal too") {
		t.Errorf("row 0 = %q", b.Row(0))
	}
}

func TestKeypadHidden(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowKeypad = false
	r, _ := newTestRenderer(40, 20, opts)
	r.Render(Frame{})
	if n := len(r.Layout().Buttons); n != 0 {
		t.Errorf("len(Buttons) = %d with keypad hidden, want 0", n)
	}
}

func TestRedrawAfterResize(t *testing.T) {
	r, b := newTestRenderer(20, 3, DefaultOptions())
	r.Render(Frame{Projection: engine.Projection{Display: "42"}})
	if !r.Layout().TooSmall {
		t.Fatal("expected too-small layout")
	}

	b.Resize(40, 20)
	r.Redraw()
	if r.Layout().TooSmall {
		t.Error("layout still too small after resize")
	}
	if !strings.Contains(b.Row(2), "42") {
		t.Errorf("row 2 = %q, want last frame redrawn", b.Row(2))
	}
}

func TestFitRight(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"123", 5, "123"},
		{"1234567", 5, "…4567"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := fitRight(tt.s, tt.width); got != tt.want {
			t.Errorf("fitRight(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestThemes(t *testing.T) {
	for _, name := range config.Themes {
		th, ok := ThemeByName(name)
		if !ok {
			t.Errorf("ThemeByName(%q) not found", name)
			continue
		}
		if th.Name != name {
			t.Errorf("ThemeByName(%q).Name = %q", name, th.Name)
		}
	}
	if _, ok := ThemeByName("neon"); ok {
		t.Error("ThemeByName(neon) should fail")
	}
	if got := ThemeNames(); len(got) != len(config.Themes) {
		t.Errorf("ThemeNames() = %v, want %v", got, config.Themes)
	}
}
