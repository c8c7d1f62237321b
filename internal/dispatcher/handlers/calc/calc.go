// Package calc provides the handler for the calc action namespace. It
// binds calculator actions to an engine.Engine and publishes the
// outcomes on the event bus.
package calc

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/event"
	"github.com/dshills/keycalc/internal/event/topic"
	"github.com/dshills/keycalc/internal/input"
)

// Namespace is the action namespace served by Handler.
const Namespace = "calc"

// Result data keys.
const (
	DataProjection = "projection"
	DataDisplay    = "display"
	DataPending    = "pending"
)

// User-facing messages for engine errors.
const (
	MsgDivisionByZero = "Cannot divide by zero!"
	MsgOverflow       = "Result is too large!"
)

// Publisher receives calculator events.
type Publisher interface {
	Publish(ctx context.Context, ev event.Event) error
}

// Handler executes calc.* actions against an engine.
type Handler struct {
	*handler.BaseNamespaceHandler

	engine    *engine.Engine
	publisher Publisher

	// ctx is the context of the action being handled, used when the
	// engine reports an evaluation.
	ctx context.Context
}

// Option configures a Handler.
type Option func(*Handler)

// WithPublisher publishes calc.result, calc.error and calc.cleared events.
func WithPublisher(p Publisher) Option {
	return func(h *Handler) {
		h.publisher = p
	}
}

// NewHandler creates a handler bound to eng. The handler installs itself
// as the engine's evaluation hook.
func NewHandler(eng *engine.Engine, opts ...Option) *Handler {
	h := &Handler{
		BaseNamespaceHandler: handler.NewBaseNamespaceHandler(Namespace),
		engine:               eng,
		ctx:                  context.Background(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.Register(input.ActionDigit, h.digit)
	h.Register(input.ActionOperator, h.operator)
	h.Register(input.ActionEquals, h.equals)
	h.Register(input.ActionDecimal, h.decimal)
	h.Register(input.ActionClear, h.clear)
	h.Register(input.ActionClearEntry, h.clearEntry)
	h.Register(input.ActionBackspace, h.backspace)

	eng.OnEvaluate(h.publishResult)
	return h
}

// Engine returns the bound engine.
func (h *Handler) Engine() *engine.Engine {
	return h.engine
}

// HandleAction implements handler.NamespaceHandler.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	h.ctx = ctx.Context()
	defer func() { h.ctx = context.Background() }()
	return h.BaseNamespaceHandler.HandleAction(action, ctx)
}

func (h *Handler) digit(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	arg := action.Args.GetString(input.ArgDigit)
	d, size := utf8.DecodeRuneInString(arg)
	if size == 0 || size != len(arg) {
		return h.failure(action, engine.ErrInvalidDigit)
	}
	_, err := h.engine.Digit(d)
	return h.outcome(action, err)
}

func (h *Handler) operator(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	op, err := engine.ParseOperator(action.Args.GetString(input.ArgOperator))
	if err != nil {
		return h.failure(action, err)
	}
	_, err = h.engine.Operator(op)
	return h.outcome(action, err)
}

func (h *Handler) equals(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	_, err := h.engine.Equals()
	return h.outcome(action, err)
}

func (h *Handler) decimal(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	h.engine.Decimal()
	return h.outcome(action, nil)
}

func (h *Handler) clear(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	h.engine.Clear()
	h.publish(event.TopicCleared, nil)
	return h.outcome(action, nil)
}

func (h *Handler) clearEntry(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	h.engine.ClearEntry()
	return h.outcome(action, nil)
}

func (h *Handler) backspace(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	h.engine.Backspace()
	return h.outcome(action, nil)
}

// outcome builds the result for an engine call, attaching the projection.
func (h *Handler) outcome(action input.Action, err error) handler.Result {
	if err != nil {
		return h.failure(action, err)
	}
	return withProjection(handler.Success(), h.engine.Projection())
}

// failure builds an error result. Division by zero and overflow carry a
// message for the user.
func (h *Handler) failure(action input.Action, err error) handler.Result {
	result := withProjection(handler.Error(err), h.engine.Projection())
	if msg := Message(err); msg != "" {
		result = result.WithMessage(msg)
	}
	h.publish(event.TopicError, event.ErrorPayload{
		Action:  action.Name,
		Message: result.Message,
		Err:     err,
	})
	return result
}

// Message returns the notice shown for err, or "" if err is not one the
// user needs to acknowledge.
func Message(err error) string {
	switch {
	case errors.Is(err, engine.ErrDivisionByZero):
		return MsgDivisionByZero
	case errors.Is(err, engine.ErrOverflow):
		return MsgOverflow
	default:
		return ""
	}
}

func (h *Handler) publishResult(ev engine.Evaluation) {
	h.publish(event.TopicResult, event.ResultPayload{
		Left:     ev.Left,
		Operator: h.engine.Symbols().Symbol(ev.Operator),
		Right:    ev.Right,
		Result:   ev.Result,
	})
}

func (h *Handler) publish(t topic.Topic, payload any) {
	if h.publisher == nil {
		return
	}
	_ = h.publisher.Publish(h.ctx, event.New(t, payload, Namespace))
}

func withProjection(r handler.Result, p engine.Projection) handler.Result {
	return r.WithData(DataProjection, p).
		WithData(DataDisplay, p.Display).
		WithData(DataPending, p.PendingExpression)
}

// ProjectionOf extracts the projection attached to a result.
func ProjectionOf(r handler.Result) (engine.Projection, bool) {
	v, ok := r.GetData(DataProjection)
	if !ok {
		return engine.Projection{}, false
	}
	p, ok := v.(engine.Projection)
	return p, ok
}
