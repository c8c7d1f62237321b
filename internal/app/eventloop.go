package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/keycalc/internal/input"
	"github.com/dshills/keycalc/internal/input/key"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

// Interrupt payloads posted to the backend from other goroutines.
type (
	shutdownRequest struct{}
	reloadRequest   struct{ err error }
)

// eventLoop polls the backend until quit. It draws the first frame
// itself and redraws after every handled event.
func (app *Application) eventLoop() error {
	app.render()
	for {
		ev := app.backend.PollEvent()
		err := app.handleBackendEvent(ev)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	case backend.EventResize:
		if app.renderer != nil {
			app.renderer.Redraw()
		}
	case backend.EventInterrupt:
		return app.handleInterrupt(ev.Data)
	case backend.EventClosed:
		return ErrQuit
	}
	return nil
}

// handleKeyEvent maps a key through the keymaps and dispatches the bound
// action. While a notice is shown the key only dismisses it.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	start := time.Now()
	defer func() { app.metrics.RecordInput(time.Since(start)) }()

	if app.notice != "" {
		return app.dispatch(input.NewAction(input.ActionDismiss).WithSource(input.SourceKeyboard))
	}

	action, ok := app.keymaps.Lookup(convertToKeyEvent(ev))
	if !ok {
		app.metrics.RecordUnbound()
		return nil
	}
	return app.dispatch(action)
}

// handleMouseEvent presses the keypad button under a left click.
func (app *Application) handleMouseEvent(ev backend.Event) error {
	if ev.MouseButton != backend.MouseLeft || app.renderer == nil {
		return nil
	}

	start := time.Now()
	defer func() { app.metrics.RecordInput(time.Since(start)) }()

	if app.notice != "" {
		return app.dispatch(input.NewAction(input.ActionDismiss).WithSource(input.SourceMouse))
	}

	action, ok := app.renderer.HitTest(ev.MouseX, ev.MouseY)
	if !ok {
		return nil
	}
	return app.dispatch(action)
}

func (app *Application) handleInterrupt(data any) error {
	switch req := data.(type) {
	case shutdownRequest:
		return ErrQuit
	case reloadRequest:
		app.reload(req.err)
		app.render()
	}
	return nil
}

// dispatch sends an action through the dispatcher and redraws. A failed
// calculator operation with a message becomes the notice.
func (app *Application) dispatch(action input.Action) error {
	result := app.dispatcher.Dispatch(context.Background(), action)

	if result.GetDataBool(dataQuit) {
		return ErrQuit
	}

	if result.IsError() {
		if result.Message != "" {
			app.notice = result.Message
			app.metrics.RecordNotice()
			if app.backend != nil {
				app.backend.Beep()
			}
		} else {
			app.metrics.RecordFailure()
		}
	}

	app.render()
	return nil
}

// convertToKeyEvent converts a backend.Event to a key.Event.
func convertToKeyEvent(ev backend.Event) key.Event {
	mods := key.ModNone
	if ev.Mod.Has(backend.ModCtrl) {
		mods = mods.With(key.ModCtrl)
	}
	if ev.Mod.Has(backend.ModAlt) {
		mods = mods.With(key.ModAlt)
	}
	if ev.Mod.Has(backend.ModShift) {
		mods = mods.With(key.ModShift)
	}
	if ev.Mod.Has(backend.ModMeta) {
		mods = mods.With(key.ModMeta)
	}

	k := mapBackendKey(ev.Key, ev.Rune)
	if k == key.KeyRune {
		return key.NewRuneEvent(ev.Rune, mods)
	}
	return key.NewSpecialEvent(k, mods)
}

// mapBackendKey maps a backend.Key to a key.Key.
func mapBackendKey(bk backend.Key, r rune) key.Key {
	switch bk {
	case backend.KeyRune:
		return key.KeyRune
	case backend.KeyEscape:
		return key.KeyEscape
	case backend.KeyEnter:
		return key.KeyEnter
	case backend.KeyTab:
		return key.KeyTab
	case backend.KeyBackspace:
		return key.KeyBackspace
	case backend.KeyDelete:
		return key.KeyDelete
	default:
		if r != 0 {
			return key.KeyRune
		}
		return key.KeyNone
	}
}
