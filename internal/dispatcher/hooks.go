package dispatcher

import (
	"time"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/input"
)

// PreDispatchHook runs before the handler. It may rewrite the action;
// returning false cancels it with ErrActionCancelled.
type PreDispatchHook interface {
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook runs after the handler and may rewrite its result.
type PostDispatchHook interface {
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc lets a function act as a PreDispatchHook.
type PreDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext) bool

func (f PreDispatchFunc) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f(action, ctx)
}

// PostDispatchFunc lets a function act as a PostDispatchHook.
type PostDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)

func (f PostDispatchFunc) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(action, ctx, result)
}

// Logger is what LoggingHook writes to.
type Logger interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
}

// LoggingHook traces every action at debug level and logs failures as
// warnings. Register it as both a pre and a post hook.
type LoggingHook struct {
	log Logger
}

// NewLoggingHook returns a hook writing to log.
func NewLoggingHook(log Logger) *LoggingHook {
	return &LoggingHook{log: log}
}

func (h *LoggingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	h.log.Debug("dispatching %s from %s", action, ctx.Source)
	return true
}

func (h *LoggingHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if !result.IsError() {
		h.log.Debug("%s -> %s", action.Name, result.Status)
		return
	}
	h.log.Warn("%s failed after %s: %v", action.Name, time.Since(ctx.StartTime), result.Error)
}
