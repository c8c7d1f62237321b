package app

import (
	"context"

	"github.com/dshills/keycalc/internal/engine"
)

// RunScript runs a Lua script without a terminal and returns the
// calculator's final state. Scripting is started even when the config
// disables it.
func (app *Application) RunScript(ctx context.Context, path string) (engine.Projection, error) {
	if err := app.startScripts(); err != nil {
		return engine.Projection{}, NewOperationError("run", path, err)
	}
	if err := app.scripts.LoadFile(ctx, path); err != nil {
		return app.engine.Projection(), NewOperationError("run", path, err)
	}
	return app.engine.Projection(), nil
}
