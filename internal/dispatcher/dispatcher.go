package dispatcher

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/input"
)

// Dispatcher hands each action to the namespace handler that owns it.
type Dispatcher struct {
	routes  *routes
	config  Config
	metrics *Metrics

	hookMu    sync.RWMutex
	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		routes: newRoutes(),
		config: config,
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a dispatcher with DefaultConfig.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// RegisterNamespace routes every action in h's namespace to h. A later
// handler for the same namespace replaces the earlier one.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.routes.add(h)
}

// Handles reports whether some registered handler accepts name.
func (d *Dispatcher) Handles(name string) bool {
	return d.routes.find(name) != nil
}

// Dispatch runs action to completion and returns its result. Failures are
// reported in the result, never as a panic.
func (d *Dispatcher) Dispatch(ctx context.Context, action input.Action) handler.Result {
	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}

	ectx := execctx.New(ctx).WithSource(action.Source)
	if err := ectx.Err(); err != nil {
		return handler.Cancelled(err)
	}

	pre, post := d.hooks()
	for _, hook := range pre {
		if !hook.PreDispatch(&action, ectx) {
			return handler.Cancelled(ErrActionCancelled)
		}
	}

	h := d.routes.find(action.Name)
	if h == nil {
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	}

	result := d.run(h, action, ectx)

	for _, hook := range post {
		hook.PostDispatch(&action, ectx, &result)
	}

	if d.metrics != nil {
		d.metrics.record(action.Name, time.Since(ectx.StartTime), result.Status)
	}
	return result
}

// run calls the handler, turning a panic into an error result when
// recovery is enabled.
func (d *Dispatcher) run(h handler.NamespaceHandler, action input.Action, ectx *execctx.ExecutionContext) (result handler.Result) {
	if d.config.RecoverFromPanic {
		defer func() {
			if v := recover(); v != nil {
				result = handler.Error(fmt.Errorf("%w: %s: %v\n%s", ErrPanic, action.Name, v, debug.Stack()))
				if d.metrics != nil {
					d.metrics.recordPanic()
				}
			}
		}()
	}
	return h.HandleAction(action, ectx)
}

// RegisterPreHook adds a hook that runs before every dispatch.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.hookMu.Lock()
	defer d.hookMu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook adds a hook that runs after every handled dispatch.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.hookMu.Lock()
	defer d.hookMu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// hooks returns copies so hooks may register hooks.
func (d *Dispatcher) hooks() ([]PreDispatchHook, []PostDispatchHook) {
	d.hookMu.RLock()
	defer d.hookMu.RUnlock()
	return slices.Clone(d.preHooks), slices.Clone(d.postHooks)
}

// Metrics returns the dispatch statistics, or nil when they are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}
