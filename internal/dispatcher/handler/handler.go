// Package handler defines namespace handlers and the results they return.
package handler

import (
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/input"
)

// Func implements one action.
type Func func(action input.Action, ctx *execctx.ExecutionContext) Result

// NamespaceHandler owns every action whose name starts with its
// namespace and a dot, as "calc" owns "calc.digit".
type NamespaceHandler interface {
	Namespace() string

	// CanHandle reports whether the handler implements the named action.
	CanHandle(name string) bool

	HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result
}

// BaseNamespaceHandler is a NamespaceHandler backed by a table of Funcs.
// Embed it and Register each action.
type BaseNamespaceHandler struct {
	namespace string
	funcs     map[string]Func
}

// NewBaseNamespaceHandler returns an empty handler for namespace.
func NewBaseNamespaceHandler(namespace string) *BaseNamespaceHandler {
	return &BaseNamespaceHandler{namespace: namespace, funcs: make(map[string]Func)}
}

// Register makes fn the implementation of the named action.
func (h *BaseNamespaceHandler) Register(name string, fn Func) {
	h.funcs[name] = fn
}

func (h *BaseNamespaceHandler) Namespace() string {
	return h.namespace
}

func (h *BaseNamespaceHandler) CanHandle(name string) bool {
	_, ok := h.funcs[name]
	return ok
}

// HandleAction runs the registered Func, or fails for an unknown action.
func (h *BaseNamespaceHandler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result {
	fn, ok := h.funcs[action.Name]
	if !ok {
		return Errorf("%s: unknown action %s", h.namespace, action.Name)
	}
	return fn(action, ctx)
}
