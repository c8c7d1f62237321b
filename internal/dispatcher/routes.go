package dispatcher

import (
	"strings"
	"sync"

	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// namespaceOf returns the part of an action name before the first dot,
// or "" when the name has no namespace.
func namespaceOf(name string) string {
	ns, _, ok := strings.Cut(name, ".")
	if !ok {
		return ""
	}
	return ns
}

// routes maps each namespace to the handler that owns it.
type routes struct {
	mu       sync.RWMutex
	handlers map[string]handler.NamespaceHandler
}

func newRoutes() *routes {
	return &routes{handlers: make(map[string]handler.NamespaceHandler)}
}

// add installs h for its namespace, replacing any earlier owner.
func (r *routes) add(h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Namespace()] = h
}

// find returns the handler that accepts name, or nil.
func (r *routes) find(name string) handler.NamespaceHandler {
	ns := namespaceOf(name)
	if ns == "" {
		return nil
	}

	r.mu.RLock()
	h := r.handlers[ns]
	r.mu.RUnlock()

	if h == nil || !h.CanHandle(name) {
		return nil
	}
	return h
}
