package app

import (
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/input"
)

// AppNamespace is the dispatcher namespace for application actions.
const AppNamespace = "app"

// dataQuit marks a result that ends the event loop.
const dataQuit = "quit"

// newAppHandler handles the actions that change application state
// rather than the calculator.
func newAppHandler(app *Application) *handler.BaseNamespaceHandler {
	h := handler.NewBaseNamespaceHandler(AppNamespace)

	h.Register(input.ActionQuit, func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithData(dataQuit, true)
	})

	h.Register(input.ActionToggleHistory, func(input.Action, *execctx.ExecutionContext) handler.Result {
		app.showHistory = !app.showHistory
		if app.renderer != nil {
			app.renderer.SetOptions(app.rendererOptions())
		}
		return handler.Success()
	})

	h.Register(input.ActionToggleHelp, func(input.Action, *execctx.ExecutionContext) handler.Result {
		app.showHelp = !app.showHelp
		if app.renderer != nil {
			app.renderer.SetOptions(app.rendererOptions())
		}
		return handler.Success()
	})

	h.Register(input.ActionDismiss, func(input.Action, *execctx.ExecutionContext) handler.Result {
		if app.notice == "" {
			return handler.NoOp()
		}
		app.notice = ""
		return handler.Success()
	})

	return h
}
