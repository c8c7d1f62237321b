package app

import (
	"context"
	"errors"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/event"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

// watchConfig starts the config watcher. Reload results are posted to the
// event loop and applied there.
func (app *Application) watchConfig() {
	err := app.config.Watch(func(err error) {
		app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: reloadRequest{err: err}})
	})
	switch {
	case errors.Is(err, config.ErrNoConfigFile):
		app.logger.Debug("no config file to watch")
	case err != nil:
		app.logger.Warn("%v", err)
	default:
		app.logger.Debug("watching %s", app.config.Path())
	}
}

// reload applies a freshly loaded configuration. On error the previous
// settings stay in effect.
func (app *Application) reload(loadErr error) {
	app.metrics.RecordReload(loadErr)
	if loadErr == nil {
		app.applyConfig()
	}

	_ = app.bus.Publish(context.Background(), event.New(event.TopicConfigReloaded, event.ConfigPayload{
		Path: app.config.Path(),
		Err:  loadErr,
	}, AppNamespace))
}

// applyConfig pushes the current configuration into the running
// components. The history size and plugin list only apply at startup.
func (app *Application) applyConfig() {
	calc := app.config.Calculator()
	if err := app.engine.SetSeparator(calc.Separator); err != nil {
		app.logger.Warn("separator: %v", err)
	}
	if err := app.engine.SetSymbols(calc.Symbols); err != nil {
		app.logger.Warn("symbols: %v", err)
	}

	app.logger.SetLevel(ParseLogLevel(app.config.Logging().Level))
	if app.opts.Debug {
		app.logger.SetLevel(LogLevelDebug)
	} else if app.opts.LogLevel != "" {
		app.logger.SetLevel(ParseLogLevel(app.opts.LogLevel))
	}

	app.loadUserKeymap()

	app.showHistory = app.config.UI().ShowHistory
	if app.renderer != nil {
		app.renderer.SetOptions(app.rendererOptions())
		app.applyTheme()
	}
}
