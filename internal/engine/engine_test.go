package engine_test

import (
	"errors"
	"testing"

	"github.com/dshills/keycalc/internal/engine"
)

// press drives the engine with a compact key script:
// digits, "+-*/" operators, '=' equals, ',' decimal, 'C' clear,
// 'E' clear entry and '<' backspace. It returns the last error seen.
func press(t *testing.T, e *engine.Engine, keys string) error {
	t.Helper()

	var last error
	for _, r := range keys {
		var err error
		switch r {
		case '+':
			_, err = e.Operator(engine.Add)
		case '-':
			_, err = e.Operator(engine.Subtract)
		case '*':
			_, err = e.Operator(engine.Multiply)
		case '/':
			_, err = e.Operator(engine.Divide)
		case '=':
			_, err = e.Equals()
		case ',':
			e.Decimal()
		case 'C':
			e.Clear()
		case 'E':
			e.ClearEntry()
		case '<':
			e.Backspace()
		case ' ':
		default:
			_, err = e.Digit(r)
		}
		if err != nil {
			last = err
		}
		if verr := e.Validate(); verr != nil {
			t.Fatalf("after %q: %v", r, verr)
		}
	}
	return last
}

func newEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	e, err := engine.New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestNewInitialProjection(t *testing.T) {
	e := newEngine(t)

	p := e.Projection()
	if p.Display != "0" {
		t.Errorf("Display = %q, want %q", p.Display, "0")
	}
	if p.PendingExpression != "" {
		t.Errorf("PendingExpression = %q, want empty", p.PendingExpression)
	}

	s := e.Snapshot()
	if s.Operand != "" || s.Operator != engine.None || s.AwaitingFresh {
		t.Errorf("Snapshot() = %+v, want initial state", s)
	}
}

func TestNewInvalidOptions(t *testing.T) {
	if _, err := engine.New(engine.WithSeparator(';')); !errors.Is(err, engine.ErrInvalidSeparator) {
		t.Errorf("New(';') error = %v, want ErrInvalidSeparator", err)
	}

	dup := engine.DefaultSymbols()
	dup.Divide = dup.Multiply
	if _, err := engine.New(engine.WithSymbols(dup)); err == nil {
		t.Error("New() with duplicate symbols should fail")
	}
}

func TestSequences(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		display string
		pending string
	}{
		{"single digit", "7", "7", ""},
		{"leading zeros collapse", "007", "7", ""},
		{"multiple digits", "1234567890", "1234567890", ""},
		{"operator shows pending", "7+", "7", "7 +"},
		{"second operand", "7+3", "3", "7 +"},
		{"addition", "7+3=", "10", ""},
		{"subtraction negative", "3-5=", "-2", ""},
		{"multiplication", "6*7=", "42", ""},
		{"division", "1/4=", "0,25", ""},
		{"left to right chaining", "3+4*2=", "14", ""},
		{"chain shows intermediate", "3+4*", "7", "7 ×"},
		{"repeated operator does not evaluate", "3++", "3", "3 +"},
		{"operator replaced", "3+-", "3", "3 -"},
		{"operator after equals", "2+3=*4=", "20", ""},
		{"equals without pending", "5=", "5", ""},
		{"equals twice", "2+3==", "5", ""},
		{"equals awaiting second operand", "5+=", "10", ""},
		{"digit after result starts fresh", "2+3=9", "9", ""},
		{"decimal entry", "1,5", "1,5", ""},
		{"decimal twice", "1,,5", "1,5", ""},
		{"decimal on fresh entry", "2+,5", "0,5", "2 +"},
		{"decimal after result", "2+3=,", "0,", ""},
		{"float noise suppressed", ",1+,2=", "0,3", ""},
		{"third", "1/3=", "0,33333333", ""},
		{"clear", "7+3C", "0", ""},
		{"clear entry keeps pending", "7+3E", "0", "7 +"},
		{"clear entry then continue", "7+3E5=", "12", ""},
		{"backspace", "123<", "12", ""},
		{"backspace to zero", "1<", "0", ""},
		{"backspace on zero", "<<<", "0", ""},
		{"backspace leaves separator", "1,5<", "1,", ""},
		{"backspace negative", "3-5=<", "0", ""},
		{"typing after negative result", "3-5=<7", "7", ""},
		{"backspace negative fraction", ",5-1=<", "-0,", ""},
		{"backspace negative fraction to zero", ",5-1=<<", "0", ""},
		{"backspace long entry to zero", "123456<<<<<<", "0", ""},
		{"negative operand", "3-5=*2=", "-4", ""},
		{"decimal operand", "2,5*2=", "5", ""},
		{"trailing separator operand", "2,+1=", "3", ""},
		{"zero result is positive", "0-0=", "0", ""},
		{"negative zero normalized", "0-1=*0=", "0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			if err := press(t, e, tt.keys); err != nil {
				t.Fatalf("press(%q) error = %v", tt.keys, err)
			}

			p := e.Projection()
			if p.Display != tt.display {
				t.Errorf("Display = %q, want %q", p.Display, tt.display)
			}
			if p.PendingExpression != tt.pending {
				t.Errorf("PendingExpression = %q, want %q", p.PendingExpression, tt.pending)
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	e := newEngine(t)

	err := press(t, e, "5/0")
	if err != nil {
		t.Fatalf("press() error = %v", err)
	}
	before := e.Snapshot()

	p, err := e.Equals()
	if !errors.Is(err, engine.ErrDivisionByZero) {
		t.Fatalf("Equals() error = %v, want ErrDivisionByZero", err)
	}
	if p.Display != "0" {
		t.Errorf("Display = %q, want %q", p.Display, "0")
	}
	if p.PendingExpression != "5 ÷" {
		t.Errorf("PendingExpression = %q, want %q", p.PendingExpression, "5 ÷")
	}
	if after := e.Snapshot(); after != before {
		t.Errorf("state changed: %+v -> %+v", before, after)
	}
}

func TestDivisionByZeroOnChainedOperator(t *testing.T) {
	e := newEngine(t)
	if err := press(t, e, "8/0,0"); err != nil {
		t.Fatalf("press() error = %v", err)
	}
	before := e.Snapshot()

	_, err := e.Operator(engine.Add)
	if !errors.Is(err, engine.ErrDivisionByZero) {
		t.Fatalf("Operator() error = %v, want ErrDivisionByZero", err)
	}
	if after := e.Snapshot(); after != before {
		t.Errorf("state changed: %+v -> %+v", before, after)
	}

	// Correcting the divisor recovers.
	if err := press(t, e, "E2="); err != nil {
		t.Fatalf("press() error = %v", err)
	}
	if got := e.Projection().Display; got != "4" {
		t.Errorf("Display = %q, want %q", got, "4")
	}
}

func TestOverflow(t *testing.T) {
	e := newEngine(t)
	big := engine.FormatNumber(1e300, ',')
	if err := e.Restore(engine.State{Current: big, Operand: big, Operator: engine.Multiply}); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	before := e.Snapshot()

	if _, err := e.Equals(); !errors.Is(err, engine.ErrOverflow) {
		t.Fatalf("Equals() error = %v, want ErrOverflow", err)
	}
	if after := e.Snapshot(); after != before {
		t.Error("state changed after overflow")
	}
}

func TestDigitRejectsNonASCII(t *testing.T) {
	e := newEngine(t)

	for _, r := range []rune{'a', '/', ':', '٣', '５', ' '} {
		if _, err := e.Digit(r); !errors.Is(err, engine.ErrInvalidDigit) {
			t.Errorf("Digit(%q) error = %v, want ErrInvalidDigit", r, err)
		}
	}
	if got := e.Projection().Display; got != "0" {
		t.Errorf("Display = %q after rejected digits, want %q", got, "0")
	}
}

func TestOperatorRejectsNone(t *testing.T) {
	e := newEngine(t)
	if _, err := e.Operator(engine.None); !errors.Is(err, engine.ErrInvalidOperator) {
		t.Errorf("Operator(None) error = %v, want ErrInvalidOperator", err)
	}
	if e.Projection().PendingExpression != "" {
		t.Error("Operator(None) should not set a pending operation")
	}
}

func TestPeriodSeparator(t *testing.T) {
	e := newEngine(t, engine.WithSeparator('.'))
	if err := press(t, e, ",1+,2="); err != nil {
		t.Fatalf("press() error = %v", err)
	}
	if got := e.Projection().Display; got != "0.3" {
		t.Errorf("Display = %q, want %q", got, "0.3")
	}
}

func TestSetSeparator(t *testing.T) {
	e := newEngine(t)
	if err := press(t, e, "1,5+2,2"); err != nil {
		t.Fatalf("press() error = %v", err)
	}

	if err := e.SetSeparator('.'); err != nil {
		t.Fatalf("SetSeparator() error = %v", err)
	}
	p := e.Projection()
	if p.Display != "2.2" || p.PendingExpression != "1.5 +" {
		t.Errorf("Projection() = %+v, want {2.2 1.5 +}", p)
	}

	if _, err := e.Equals(); err != nil {
		t.Fatalf("Equals() error = %v", err)
	}
	if got := e.Projection().Display; got != "3.7" {
		t.Errorf("Display = %q, want %q", got, "3.7")
	}

	if err := e.SetSeparator('x'); !errors.Is(err, engine.ErrInvalidSeparator) {
		t.Errorf("SetSeparator('x') error = %v, want ErrInvalidSeparator", err)
	}
}

func TestCustomSymbols(t *testing.T) {
	e := newEngine(t, engine.WithSymbols(engine.SymbolSet{Add: "plus", Subtract: "minus", Multiply: "times", Divide: "over"}))
	if err := press(t, e, "9/"); err != nil {
		t.Fatalf("press() error = %v", err)
	}
	if got := e.Projection().PendingExpression; got != "9 over" {
		t.Errorf("PendingExpression = %q, want %q", got, "9 over")
	}
}

func TestEvaluationHook(t *testing.T) {
	var got []engine.Evaluation
	e := newEngine(t, engine.WithEvaluationHook(func(ev engine.Evaluation) {
		got = append(got, ev)
	}))

	if err := press(t, e, "3+4*2="); err != nil {
		t.Fatalf("press() error = %v", err)
	}

	want := []engine.Evaluation{
		{Left: "3", Operator: engine.Add, Right: "4", Result: "7"},
		{Left: "7", Operator: engine.Multiply, Right: "2", Result: "14"},
	}
	if len(got) != len(want) {
		t.Fatalf("hook called %d times, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("evaluation %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestEvaluationHookNotCalledOnError(t *testing.T) {
	called := false
	e := newEngine(t, engine.WithEvaluationHook(func(engine.Evaluation) { called = true }))
	_ = press(t, e, "1/0=")
	if called {
		t.Error("hook called for failed evaluation")
	}
}

func TestRestoreRejectsInconsistentState(t *testing.T) {
	e := newEngine(t)

	bad := []engine.State{
		{Current: ""},
		{Current: "1,2,3"},
		{Current: "abc"},
		{Current: "1", Operand: "2"},
		{Current: "1", Operator: engine.Add},
		{Current: "1", Operand: "x", Operator: engine.Add},
	}
	for _, s := range bad {
		if err := e.Restore(s); !errors.Is(err, engine.ErrInvariant) {
			t.Errorf("Restore(%+v) error = %v, want ErrInvariant", s, err)
		}
	}
	if e.Projection().Display != "0" {
		t.Error("rejected Restore modified state")
	}
}
