// Package renderer draws the calculator on a terminal backend.
//
// A frame consists of:
//   - the display box: pending expression above the current entry,
//     both right-aligned
//   - the on-screen keypad, whose buttons can be clicked
//   - an optional history panel to the right
//   - an optional modal notice box
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│   Renderer: Frame → Layout → cells      │
//	├─────────────────────────────────────────┤
//	│   Backend abstraction                   │
//	├─────────────────────────────────────────┤
//	│   Terminal (tcell) │ NullBackend        │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term, renderer.DefaultOptions())
//	r.Render(renderer.Frame{Projection: eng.Projection()})
//	if action, ok := r.HitTest(x, y); ok {
//	    dispatcher.Dispatch(ctx, action)
//	}
package renderer
