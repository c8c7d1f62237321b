package dispatcher_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/input"
)

// calcNamespace returns a "calc" handler with the given actions.
func calcNamespace(actions map[string]handler.Func) *handler.BaseNamespaceHandler {
	ns := handler.NewBaseNamespaceHandler("calc")
	for name, fn := range actions {
		ns.Register(name, fn)
	}
	return ns
}

func ok(input.Action, *execctx.ExecutionContext) handler.Result {
	return handler.Success()
}

func fail(input.Action, *execctx.ExecutionContext) handler.Result {
	return handler.Errorf("fail")
}

func TestNewWithDefaults(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	if d.Metrics() != nil {
		t.Error("Metrics() != nil, want nil by default")
	}
}

func TestDispatchNoHandler(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterNamespace(calcNamespace(map[string]handler.Func{"calc.clear": ok}))

	for _, name := range []string{"unknown.action", "calc.backspace", "plain"} {
		result := d.Dispatch(context.Background(), input.NewAction(name))
		if !errors.Is(result.Error, dispatcher.ErrNoHandler) {
			t.Errorf("Dispatch(%s).Error = %v, want ErrNoHandler", name, result.Error)
		}
	}
}

func TestDispatchInvalidAction(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	result := d.Dispatch(context.Background(), input.Action{})
	if !errors.Is(result.Error, dispatcher.ErrInvalidAction) {
		t.Errorf("Dispatch(empty).Error = %v, want ErrInvalidAction", result.Error)
	}
}

func TestDispatchCancelledContext(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	called := false
	d.RegisterNamespace(calcNamespace(map[string]handler.Func{
		"calc.clear": func(input.Action, *execctx.ExecutionContext) handler.Result {
			called = true
			return handler.Success()
		},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := d.Dispatch(ctx, input.NewAction("calc.clear"))

	if called || result.Status != handler.StatusCancelled {
		t.Errorf("Dispatch(cancelled ctx) = %v, called=%v", result.Status, called)
	}
}

func TestHandles(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterNamespace(calcNamespace(map[string]handler.Func{"calc.equals": ok}))

	tests := []struct {
		name string
		want bool
	}{
		{"calc.equals", true},
		{"calc.backspace", false},
		{"app.quit", false},
		{"equals", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := d.Handles(tt.name); got != tt.want {
			t.Errorf("Handles(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegisterNamespaceReplaces(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterNamespace(calcNamespace(map[string]handler.Func{"calc.clear": ok}))
	d.RegisterNamespace(calcNamespace(map[string]handler.Func{
		"calc.clear": func(input.Action, *execctx.ExecutionContext) handler.Result {
			return handler.Success().WithMessage("second")
		},
	}))

	if got := d.Dispatch(context.Background(), input.NewAction("calc.clear")).Message; got != "second" {
		t.Errorf("Dispatch(calc.clear).Message = %q, want %q", got, "second")
	}
}

func TestPanicRecovery(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterNamespace(calcNamespace(map[string]handler.Func{
		"calc.boom": func(input.Action, *execctx.ExecutionContext) handler.Result {
			panic("kaboom")
		},
	}))

	result := d.Dispatch(context.Background(), input.NewAction("calc.boom"))

	if !errors.Is(result.Error, dispatcher.ErrPanic) {
		t.Errorf("Dispatch(panicking).Error = %v, want ErrPanic", result.Error)
	}
	snap := d.Metrics().Snapshot()
	if snap.Panics != 1 || snap.Errors != 1 {
		t.Errorf("Snapshot() panics=%d errors=%d, want 1 and 1", snap.Panics, snap.Errors)
	}
}

func TestPanicWithoutRecovery(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithPanicRecovery(false))
	d.RegisterNamespace(calcNamespace(map[string]handler.Func{
		"calc.boom": func(input.Action, *execctx.ExecutionContext) handler.Result {
			panic("kaboom")
		},
	}))

	defer func() {
		if recover() == nil {
			t.Error("Dispatch() did not panic with recovery disabled")
		}
	}()
	d.Dispatch(context.Background(), input.NewAction("calc.boom"))
}

func TestHooks(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterNamespace(calcNamespace(map[string]handler.Func{
		"calc.digit": func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
			return handler.SuccessWithData("digit", a.Args.GetString("digit")).
				WithData("tag", ctx.GetDataString("tag"))
		},
	}))

	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(a *input.Action, ctx *execctx.ExecutionContext) bool {
		ctx.SetData("tag", "pre")
		if a.Args.GetString("digit") == "9" {
			a.Args = input.ActionArgs{"digit": "8"}
		}
		return a.Args.GetString("digit") != "0"
	}))
	var post []string
	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(a *input.Action, _ *execctx.ExecutionContext, r *handler.Result) {
		post = append(post, a.Name+":"+r.Status.String())
	}))

	ctx := context.Background()
	r := d.Dispatch(ctx, input.DigitAction('9'))
	if r.GetDataString("digit") != "8" || r.GetDataString("tag") != "pre" {
		t.Errorf("result data = %v, want digit 8 and tag pre", r.Data)
	}

	r = d.Dispatch(ctx, input.DigitAction('0'))
	if r.Status != handler.StatusCancelled || !errors.Is(r.Error, dispatcher.ErrActionCancelled) {
		t.Errorf("cancelled dispatch = %+v", r)
	}
	if len(post) != 1 || post[0] != "calc.digit:ok" {
		t.Errorf("post hooks saw %v", post)
	}
}

type recordingLogger struct {
	debug, warn int
}

func (l *recordingLogger) Debug(string, ...any) { l.debug++ }
func (l *recordingLogger) Warn(string, ...any)  { l.warn++ }

func TestLoggingHook(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	log := &recordingLogger{}
	hook := dispatcher.NewLoggingHook(log)
	d.RegisterPreHook(hook)
	d.RegisterPostHook(hook)
	d.RegisterNamespace(calcNamespace(map[string]handler.Func{"calc.ok": ok, "calc.fail": fail}))

	d.Dispatch(context.Background(), input.NewAction("calc.ok"))
	d.Dispatch(context.Background(), input.NewAction("calc.fail"))

	if log.debug != 3 || log.warn != 1 {
		t.Errorf("debug=%d warn=%d, want 3 and 1", log.debug, log.warn)
	}
}

func TestMetrics(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterNamespace(calcNamespace(map[string]handler.Func{"calc.ok": ok, "calc.fail": fail}))

	ctx := context.Background()
	d.Dispatch(ctx, input.NewAction("calc.ok"))
	d.Dispatch(ctx, input.NewAction("calc.ok"))
	d.Dispatch(ctx, input.NewAction("calc.fail"))
	d.Dispatch(ctx, input.NewAction("calc.missing"))

	m := d.Metrics()
	snap := m.Snapshot()
	if snap.Dispatches != 3 || snap.Errors != 1 || snap.Actions != 2 {
		t.Errorf("Snapshot() = %+v, want 3 dispatches, 1 error, 2 actions", snap)
	}
	if snap.Average() != snap.Total/3 {
		t.Errorf("Average() = %v, want %v", snap.Average(), snap.Total/3)
	}

	top := m.TopActions(5)
	if len(top) != 2 {
		t.Fatalf("len(TopActions(5)) = %d, want 2", len(top))
	}
	if top[0].Name != "calc.ok" || top[0].Count != 2 || top[0].Errors != 0 {
		t.Errorf("TopActions()[0] = %+v, want calc.ok with 2 dispatches", top[0])
	}
	if top[1].Name != "calc.fail" || top[1].Errors != 1 {
		t.Errorf("TopActions()[1] = %+v, want calc.fail with 1 error", top[1])
	}
	if got := m.TopActions(1); len(got) != 1 || got[0].Name != "calc.ok" {
		t.Errorf("TopActions(1) = %v, want [calc.ok]", got)
	}
	if got := m.TopActions(-1); len(got) != 0 {
		t.Errorf("TopActions(-1) = %v, want empty", got)
	}
}

func TestActionStatsAverage(t *testing.T) {
	var zero dispatcher.ActionStats
	if got := zero.Average(); got != 0 {
		t.Errorf("zero.Average() = %v, want 0", got)
	}
	s := dispatcher.ActionStats{Count: 4, Total: 400}
	if got := s.Average(); got != 100 {
		t.Errorf("Average() = %v, want 100", got)
	}
}
