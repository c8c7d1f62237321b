package renderer

import (
	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/input"
	"github.com/dshills/keycalc/internal/renderer/core"
)

// Layout dimensions.
const (
	MinCalcWidth    = 20
	MaxCalcWidth    = 32
	MinHistoryWidth = 16
	MaxHistoryWidth = 36

	displayHeight = 4 // border, pending line, display line, border
	keypadTop     = displayHeight + 1
	keypadRows    = 5
	keypadColumns = 4
	rowStride     = 2 // one button row plus a blank spacer
)

// ButtonKind selects the style a button is drawn with.
type ButtonKind int

const (
	ButtonDigit ButtonKind = iota
	ButtonOperator
	ButtonFunction
	ButtonEquals
)

// Button is an on-screen key.
type Button struct {
	Label  string
	Action input.Action
	Kind   ButtonKind
	Rect   core.ScreenRect
}

// Layout is the screen geometry for one terminal size.
type Layout struct {
	Width, Height int

	// TooSmall is set when the terminal cannot fit the display box.
	TooSmall bool

	Display core.ScreenRect
	Buttons []Button
	// History is the side panel, showing history or key help. It is
	// empty when the panel is hidden or does not fit.
	History core.ScreenRect
}

type buttonSpec struct {
	label  string
	action input.Action
	kind   ButtonKind
	span   int
}

// keypad returns the button grid:
//
//	C  CE ⌫  ÷
//	7  8  9  ×
//	4  5  6  -
//	1  2  3  +
//	0     ,  =
func keypad(opts Options) [][]buttonSpec {
	digit := func(r rune) buttonSpec {
		return buttonSpec{label: string(r), action: input.DigitAction(r), kind: ButtonDigit, span: 1}
	}
	op := func(o engine.Operator) buttonSpec {
		return buttonSpec{label: opts.Symbols.Symbol(o), action: input.OperatorAction(o.String()), kind: ButtonOperator, span: 1}
	}
	fn := func(label, name string) buttonSpec {
		return buttonSpec{label: label, action: input.NewAction(name), kind: ButtonFunction, span: 1}
	}

	sep := opts.Separator
	if sep == 0 {
		sep = engine.DefaultSeparator
	}

	return [][]buttonSpec{
		{fn("C", input.ActionClear), fn("CE", input.ActionClearEntry), fn("⌫", input.ActionBackspace), op(engine.Divide)},
		{digit('7'), digit('8'), digit('9'), op(engine.Multiply)},
		{digit('4'), digit('5'), digit('6'), op(engine.Subtract)},
		{digit('1'), digit('2'), digit('3'), op(engine.Add)},
		{
			{label: "0", action: input.DigitAction('0'), kind: ButtonDigit, span: 2},
			{label: string(sep), action: input.NewAction(input.ActionDecimal), kind: ButtonDigit, span: 1},
			{label: "=", action: input.NewAction(input.ActionEquals), kind: ButtonEquals, span: 1},
		},
	}
}

// ComputeLayout places the display, keypad and side panel.
func ComputeLayout(width, height int, opts Options) Layout {
	l := Layout{Width: width, Height: height}

	calcW := min(width, MaxCalcWidth)
	if calcW < MinCalcWidth || height < displayHeight {
		l.TooSmall = true
		return l
	}
	l.Display = core.RectFromSize(0, 0, displayHeight, calcW)
	calcH := displayHeight

	if opts.ShowKeypad && height >= keypadTop+keypadRows*rowStride-1 {
		l.Buttons = layoutButtons(calcW, opts)
		calcH = keypadTop + keypadRows*rowStride - 1
	}

	if opts.ShowHistory || opts.ShowHelp {
		avail := width - calcW - 1
		if avail >= MinHistoryWidth {
			h := min(height, max(calcH, 8))
			l.History = core.RectFromSize(0, calcW+1, h, min(avail, MaxHistoryWidth))
		}
	}
	return l
}

func layoutButtons(calcW int, opts Options) []Button {
	bw := (calcW - 2 - (keypadColumns - 1)) / keypadColumns
	buttons := make([]Button, 0, keypadRows*keypadColumns)

	for i, row := range keypad(opts) {
		top := keypadTop + i*rowStride
		col := 0
		for _, spec := range row {
			left := 1 + col*(bw+1)
			w := spec.span*bw + (spec.span - 1)
			buttons = append(buttons, Button{
				Label:  spec.label,
				Action: spec.action,
				Kind:   spec.kind,
				Rect:   core.RectFromSize(top, left, 1, w),
			})
			col += spec.span
		}
	}
	return buttons
}

// HitTest returns the button at screen position (x, y).
func (l Layout) HitTest(x, y int) (Button, bool) {
	pos := core.ScreenPos{Row: y, Col: x}
	for _, b := range l.Buttons {
		if b.Rect.Contains(pos) {
			return b, true
		}
	}
	return Button{}, false
}
