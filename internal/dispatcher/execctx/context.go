// Package execctx provides the execution context for action handlers.
package execctx

import (
	"context"
	"time"

	"github.com/dshills/keycalc/internal/input"
)

// ExecutionContext carries per-dispatch state to a handler.
type ExecutionContext struct {
	ctx context.Context

	// Source is where the dispatched action came from.
	Source input.ActionSource

	// StartTime is when dispatch began.
	StartTime time.Time

	// Data holds values passed between hooks and handlers.
	Data map[string]any
}

// New creates an execution context bound to ctx.
func New(ctx context.Context) *ExecutionContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ExecutionContext{
		ctx:       ctx,
		StartTime: time.Now(),
		Data:      make(map[string]any),
	}
}

// Context returns the context the action was dispatched with.
func (c *ExecutionContext) Context() context.Context {
	return c.ctx
}

// Err reports whether the dispatch context has been cancelled.
func (c *ExecutionContext) Err() error {
	return c.ctx.Err()
}

// WithSource sets the action source.
func (c *ExecutionContext) WithSource(src input.ActionSource) *ExecutionContext {
	c.Source = src
	return c
}

// SetData stores a value.
func (c *ExecutionContext) SetData(key string, value any) {
	c.Data[key] = value
}

// GetData retrieves a value.
func (c *ExecutionContext) GetData(key string) (any, bool) {
	v, ok := c.Data[key]
	return v, ok
}

// GetDataString retrieves a string value.
func (c *ExecutionContext) GetDataString(key string) string {
	if v, ok := c.Data[key].(string); ok {
		return v
	}
	return ""
}
