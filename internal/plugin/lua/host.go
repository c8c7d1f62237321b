package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/event"
	"github.com/dshills/keycalc/internal/event/topic"
	"github.com/dshills/keycalc/internal/input"
)

// ModuleName is the global table scripts use.
const ModuleName = "calc"

// ErrNoBus is raised by calc.on when the host has no event bus.
var ErrNoBus = errors.New("event bus not available")

// Dispatcher executes actions pressed by scripts.
type Dispatcher interface {
	Dispatch(ctx context.Context, action input.Action) handler.Result
}

// Calculator exposes the state scripts can read.
type Calculator interface {
	Projection() engine.Projection
	Separator() rune
}

// Subscriber is the part of the event bus scripts use.
type Subscriber interface {
	Subscribe(pattern topic.Topic, h event.Handler, opts ...event.SubscriptionOption) (*event.Subscription, error)
	Unsubscribe(sub *event.Subscription) error
}

// Logger receives calc.log and print output.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// HostConfig configures a Host.
type HostConfig struct {
	Dispatcher Dispatcher
	Calculator Calculator
	Bus        Subscriber
	Logger     Logger
	Timeout    time.Duration
}

// Host runs calculator scripts. It installs the calc module:
//
//	calc.press(name [, arg])  -- dispatch an action; returns display, pending[, notice]
//	calc.digits("12,5")       -- press each digit; "," and "." press the separator
//	calc.display()            -- current entry
//	calc.pending()            -- pending expression
//	calc.separator()          -- decimal separator
//	calc.on(topic, fn)        -- call fn(topic, payload) for matching events; returns an id
//	calc.off(id)              -- cancel a subscription
//	calc.log(msg)             -- write to the application log
//
// Action names without a namespace are in the calc namespace, so
// calc.press("operator", "add") and calc.press("calc.operator", "add")
// are the same.
type Host struct {
	state  *State
	bridge *Bridge
	cfg    HostConfig
	subs   map[string]*event.Subscription
}

// NewHost creates a host with a fresh sandboxed state.
func NewHost(cfg HostConfig) (*Host, error) {
	if cfg.Dispatcher == nil || cfg.Calculator == nil {
		return nil, errors.New("lua host: dispatcher and calculator are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger{}
	}

	h := &Host{cfg: cfg, subs: make(map[string]*event.Subscription)}
	h.state = NewState(WithTimeout(cfg.Timeout), WithPrint(func(s string) {
		cfg.Logger.Info("[lua] %s", s)
	}))
	h.bridge = NewBridge(h.state.L)

	h.state.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"press":     h.press,
		"digits":    h.digits,
		"display":   h.display,
		"pending":   h.pending,
		"separator": h.separator,
		"on":        h.on,
		"off":       h.off,
		"log":       h.log,
	})
	return h, nil
}

// LoadFile runs the script at path.
func (h *Host) LoadFile(ctx context.Context, path string) error {
	return h.state.DoFile(ctx, path)
}

// RunString runs a Lua chunk.
func (h *Host) RunString(ctx context.Context, code string) error {
	return h.state.DoString(ctx, code)
}

// State returns the underlying state.
func (h *Host) State() *State {
	return h.state
}

// Subscriptions returns the number of active calc.on subscriptions.
func (h *Host) Subscriptions() int {
	return len(h.subs)
}

// Close cancels all script subscriptions and closes the state.
func (h *Host) Close() {
	for id, sub := range h.subs {
		_ = h.cfg.Bus.Unsubscribe(sub)
		delete(h.subs, id)
	}
	h.state.Close()
}

func (h *Host) press(L *lua.LState) int {
	name := L.CheckString(1)
	if !strings.Contains(name, ".") {
		name = ModuleName + "." + name
	}

	action := input.NewAction(name)
	switch arg := L.Get(2).(type) {
	case *lua.LNilType:
	case *lua.LTable:
		args, ok := h.bridge.ToGoValue(arg).(map[string]any)
		if !ok {
			L.ArgError(2, "expected a table with named fields")
			return 0
		}
		action.Args = input.ActionArgs(args)
	default:
		s := L.ToStringMeta(arg).String()
		switch name {
		case input.ActionDigit:
			action.Args = input.ActionArgs{input.ArgDigit: s}
		case input.ActionOperator:
			action.Args = input.ActionArgs{input.ArgOperator: s}
		default:
			L.ArgError(2, fmt.Sprintf("%s takes no argument", name))
			return 0
		}
	}

	return h.dispatch(L, action)
}

func (h *Host) digits(L *lua.LState) int {
	s := L.CheckString(1)
	for _, r := range s {
		var action input.Action
		switch {
		case r >= '0' && r <= '9':
			action = input.DigitAction(r)
		case r == '.' || r == ',':
			action = input.NewAction(input.ActionDecimal)
		default:
			L.ArgError(1, fmt.Sprintf("invalid character %q", r))
			return 0
		}
		result := h.cfg.Dispatcher.Dispatch(luaContext(L), action.WithSource(input.SourcePlugin))
		if result.IsError() {
			L.RaiseError("%s: %v", action.Name, result.Error)
			return 0
		}
	}
	return h.pushProjection(L)
}

func (h *Host) dispatch(L *lua.LState, action input.Action) int {
	result := h.cfg.Dispatcher.Dispatch(luaContext(L), action.WithSource(input.SourcePlugin))
	if result.IsError() && result.Message == "" {
		L.RaiseError("%s: %v", action.Name, result.Error)
		return 0
	}
	n := h.pushProjection(L)
	if result.Message != "" {
		L.Push(lua.LString(result.Message))
		n++
	}
	return n
}

func (h *Host) pushProjection(L *lua.LState) int {
	p := h.cfg.Calculator.Projection()
	L.Push(lua.LString(p.Display))
	L.Push(lua.LString(p.PendingExpression))
	return 2
}

func (h *Host) display(L *lua.LState) int {
	L.Push(lua.LString(h.cfg.Calculator.Projection().Display))
	return 1
}

func (h *Host) pending(L *lua.LState) int {
	L.Push(lua.LString(h.cfg.Calculator.Projection().PendingExpression))
	return 1
}

func (h *Host) separator(L *lua.LState) int {
	L.Push(lua.LString(string(h.cfg.Calculator.Separator())))
	return 1
}

func (h *Host) on(L *lua.LState) int {
	pattern := topic.Topic(L.CheckString(1))
	fn := L.CheckFunction(2)
	if h.cfg.Bus == nil {
		L.RaiseError("calc.on: %v", ErrNoBus)
		return 0
	}

	sub, err := h.cfg.Bus.Subscribe(pattern, func(ctx context.Context, ev event.Event) error {
		_, err := h.state.Call(ctx, fn, lua.LString(ev.Topic), h.bridge.ToLuaValue(ev.Payload))
		if err != nil {
			h.cfg.Logger.Warn("lua handler for %s: %v", ev.Topic, err)
		}
		return err
	})
	if err != nil {
		L.RaiseError("calc.on(%q): %v", pattern, err)
		return 0
	}
	h.subs[sub.ID()] = sub
	L.Push(lua.LString(sub.ID()))
	return 1
}

func (h *Host) off(L *lua.LState) int {
	id := L.CheckString(1)
	sub, ok := h.subs[id]
	if ok {
		_ = h.cfg.Bus.Unsubscribe(sub)
		delete(h.subs, id)
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (h *Host) log(L *lua.LState) int {
	h.cfg.Logger.Info("[lua] %s", L.ToStringMeta(L.CheckAny(1)).String())
	return 0
}

func luaContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

type discardLogger struct{}

func (discardLogger) Info(string, ...any) {}
func (discardLogger) Warn(string, ...any) {}
