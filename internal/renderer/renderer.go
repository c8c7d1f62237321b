package renderer

import (
	"strings"
	"sync"

	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/engine/history"
	"github.com/dshills/keycalc/internal/input"
	"github.com/dshills/keycalc/internal/renderer/backend"
	"github.com/dshills/keycalc/internal/renderer/core"
)

// Options configures what the renderer draws.
type Options struct {
	ShowKeypad  bool
	ShowHistory bool
	// ShowHelp puts the key help in the side panel in place of history.
	ShowHelp bool

	// Symbols and Separator label the operator and decimal buttons.
	Symbols   engine.SymbolSet
	Separator rune
}

// DefaultOptions returns the default renderer options.
func DefaultOptions() Options {
	return Options{
		ShowKeypad: true,
		Symbols:    engine.DefaultSymbols(),
		Separator:  engine.DefaultSeparator,
	}
}

// Frame is everything one screen shows.
type Frame struct {
	Projection engine.Projection
	// History is oldest first; the panel lists it newest first.
	History []history.Entry
	// Notice, when set, is drawn as a modal box.
	Notice string
	// Help lines are shown in the side panel when ShowHelp is set.
	Help []string
}

// NoticeHint is shown under a notice.
const NoticeHint = "press any key"

// Renderer draws frames onto a backend.
type Renderer struct {
	mu sync.Mutex

	backend backend.Backend
	theme   Theme
	opts    Options
	layout  Layout
	frame   Frame
	frames  uint64
}

// New creates a renderer with the dark theme.
func New(b backend.Backend, opts Options) *Renderer {
	return &Renderer{backend: b, theme: DarkTheme(), opts: opts}
}

// SetTheme changes the theme used by the next render.
func (r *Renderer) SetTheme(t Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.theme = t
}

// Theme returns the current theme.
func (r *Renderer) Theme() Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// SetOptions changes the renderer options.
func (r *Renderer) SetOptions(opts Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts = opts
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// Layout returns the layout of the last render.
func (r *Renderer) Layout() Layout {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layout
}

// FrameCount returns how many frames have been drawn.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Render draws f and remembers it for Redraw.
func (r *Renderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = f
	r.render()
}

// Redraw draws the last frame again, for example after a resize.
func (r *Renderer) Redraw() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.render()
}

// HitTest maps a click to the action of the button under it.
func (r *Renderer) HitTest(x, y int) (input.Action, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frame.Notice != "" {
		return input.Action{}, false
	}
	b, ok := r.layout.HitTest(x, y)
	if !ok {
		return input.Action{}, false
	}
	return b.Action.WithSource(input.SourceMouse), true
}

func (r *Renderer) render() {
	w, h := r.backend.Size()
	r.layout = ComputeLayout(w, h, r.opts)
	r.frames++

	r.backend.Clear()
	r.fill(core.ScreenRect{Right: w, Bottom: h}, r.theme.Base)

	if r.layout.TooSmall {
		r.drawText(0, 0, core.Truncate("terminal too small", w), r.theme.Base)
		r.backend.Show()
		return
	}

	r.drawDisplay()
	for _, b := range r.layout.Buttons {
		r.drawButton(b)
	}
	if !r.layout.History.IsEmpty() {
		if r.opts.ShowHelp {
			r.drawHelp()
		} else {
			r.drawHistory()
		}
	}
	if r.frame.Notice != "" {
		r.drawNotice()
	}
	r.backend.Show()
}

func (r *Renderer) drawDisplay() {
	box := r.layout.Display
	r.drawBox(box, r.theme.Border, "")

	inner := box.Inset(1, 2, 1, 2)
	p := r.frame.Projection
	r.drawRight(inner.Top, inner, fitRight(p.PendingExpression, inner.Width()), r.theme.Pending)
	r.drawRight(inner.Top+1, inner, fitRight(p.Display, inner.Width()), r.theme.Display)
}

func (r *Renderer) drawButton(b Button) {
	style := r.theme.Digit
	switch b.Kind {
	case ButtonOperator:
		style = r.theme.Operator
	case ButtonFunction:
		style = r.theme.Function
	case ButtonEquals:
		style = r.theme.Equals
	}
	r.fill(b.Rect, style)

	label := core.Truncate(b.Label, b.Rect.Width())
	x := b.Rect.Left + (b.Rect.Width()-core.StringWidth(label))/2
	r.drawText(x, b.Rect.Top, label, style)
}

func (r *Renderer) drawHistory() {
	box := r.layout.History
	r.drawBox(box, r.theme.Border, " History ")

	inner := box.Inset(1, 1, 1, 1)
	entries := r.frame.History
	if len(entries) == 0 {
		r.drawText(inner.Left, inner.Top, core.Truncate("(empty)", inner.Width()), r.theme.Muted)
		return
	}
	row := inner.Top
	for i := len(entries) - 1; i >= 0 && row < inner.Bottom; i-- {
		r.drawText(inner.Left, row, core.Truncate(entries[i].String(), inner.Width()), r.theme.History)
		row++
	}
}

func (r *Renderer) drawHelp() {
	box := r.layout.History
	r.drawBox(box, r.theme.Border, " Keys ")

	inner := box.Inset(1, 1, 1, 1)
	for i, line := range r.frame.Help {
		row := inner.Top + i
		if row >= inner.Bottom {
			break
		}
		style := r.theme.History
		if !strings.HasPrefix(line, " ") {
			style = r.theme.Pending
		}
		r.drawText(inner.Left, row, core.Truncate(line, inner.Width()), style)
	}
}

func (r *Renderer) drawNotice() {
	area := r.layout.Display
	if n := len(r.layout.Buttons); n > 0 {
		area.Bottom = r.layout.Buttons[n-1].Rect.Bottom
	}

	msgW := max(core.StringWidth(r.frame.Notice), core.StringWidth(NoticeHint))
	w := min(area.Width(), msgW+4)
	h := 4
	top := area.Top + max(0, (area.Height()-h)/2)
	left := area.Left + (area.Width()-w)/2
	box := core.RectFromSize(top, left, h, w)

	r.fill(box, r.theme.Notice)
	r.drawBox(box, r.theme.Notice, "")
	inner := box.Inset(1, 1, 1, 1)
	r.drawCentered(inner.Top, inner, core.Truncate(r.frame.Notice, inner.Width()), r.theme.Notice)
	r.drawCentered(inner.Top+1, inner, core.Truncate(NoticeHint, inner.Width()), r.theme.Notice.Dim())
}

func (r *Renderer) fill(rect core.ScreenRect, style core.Style) {
	cell := core.NewStyledCell(' ', style)
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			r.backend.SetCell(x, y, cell)
		}
	}
}

func (r *Renderer) drawBox(rect core.ScreenRect, style core.Style, title string) {
	if rect.Width() < 2 || rect.Height() < 2 {
		return
	}
	right, bottom := rect.Right-1, rect.Bottom-1
	set := func(x, y int, ch rune) {
		r.backend.SetCell(x, y, core.NewStyledCell(ch, style))
	}
	for x := rect.Left + 1; x < right; x++ {
		set(x, rect.Top, '─')
		set(x, bottom, '─')
	}
	for y := rect.Top + 1; y < bottom; y++ {
		set(rect.Left, y, '│')
		set(right, y, '│')
	}
	set(rect.Left, rect.Top, '┌')
	set(right, rect.Top, '┐')
	set(rect.Left, bottom, '└')
	set(right, bottom, '┘')

	if title != "" {
		r.drawText(rect.Left+2, rect.Top, core.Truncate(title, rect.Width()-4), r.theme.Title)
	}
}

// drawText writes s from (x, y) and returns the column after it.
func (r *Renderer) drawText(x, y int, s string, style core.Style) int {
	for _, ch := range s {
		w := core.RuneWidth(ch)
		if w == 0 {
			continue
		}
		r.backend.SetCell(x, y, core.NewStyledCell(ch, style))
		if w == 2 {
			r.backend.SetCell(x+1, y, core.Cell{Style: style})
		}
		x += w
	}
	return x
}

func (r *Renderer) drawRight(y int, area core.ScreenRect, s string, style core.Style) {
	r.drawText(area.Right-core.StringWidth(s), y, s, style)
}

func (r *Renderer) drawCentered(y int, area core.ScreenRect, s string, style core.Style) {
	r.drawText(area.Left+(area.Width()-core.StringWidth(s))/2, y, s, style)
}

// fitRight keeps the rightmost part of s that fits in width cells,
// marking the cut with an ellipsis.
func fitRight(s string, width int) string {
	if core.StringWidth(s) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	used, i := 1, len(runes)
	for i > 0 && used+core.RuneWidth(runes[i-1]) <= width {
		i--
		used += core.RuneWidth(runes[i])
	}
	return "…" + string(runes[i:])
}
