package app

import (
	"context"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/dispatcher"
	calchandler "github.com/dshills/keycalc/internal/dispatcher/handlers/calc"
	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/engine/history"
	"github.com/dshills/keycalc/internal/event"
	"github.com/dshills/keycalc/internal/input/keymap"
	"github.com/dshills/keycalc/internal/plugin/lua"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	loadErr   error
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      app.opts,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", b.initConfig},
		{"logger", b.initLogger},
		{"event bus", b.initEventBus},
		{"engine", b.initEngine},
		{"dispatcher", b.initDispatcher},
		{"keymaps", b.initKeymaps},
		{"subscriptions", b.initSubscriptions},
		{"scripts", b.initScripts},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
		b.initOrder = append(b.initOrder, step.name)
	}
	return nil
}

// cleanup releases components in reverse init order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "scripts":
			if b.app.scripts != nil {
				b.app.scripts.Close()
			}
		case "event bus":
			b.app.bus.Close()
		case "logger":
			if b.app.logFile != nil {
				_ = b.app.logFile.Close()
			}
		case "config":
			b.app.config.Close()
		}
	}
}

// initConfig loads the configuration. A bad file is reported once the
// logger exists and the defaults stay in effect.
func (b *bootstrapper) initConfig() error {
	path := b.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	b.app.config = config.New(config.WithPath(path))
	b.loadErr = b.app.config.Load(context.Background())
	return nil
}

func (b *bootstrapper) initLogger() error {
	logCfg := b.app.config.Logging()

	level := ParseLogLevel(logCfg.Level)
	if b.opts.LogLevel != "" {
		level = ParseLogLevel(b.opts.LogLevel)
	}
	if b.opts.Debug {
		level = LogLevelDebug
	}

	out := b.opts.LogOutput
	if out == nil {
		file := logCfg.File
		if b.opts.LogFile != "" {
			file = b.opts.LogFile
		}
		if file != "" {
			f, err := OpenLogFile(file)
			if err != nil {
				return NewOperationError("open", file, err)
			}
			b.app.logFile = f
			out = f
		}
	}

	b.app.logger = NewLogger(LoggerConfig{Level: level, Output: out, Prefix: "keycalc"})
	if b.loadErr != nil {
		b.app.logger.Warn("config %s: %v; using defaults", b.app.config.Path(), b.loadErr)
	}
	return nil
}

func (b *bootstrapper) initEventBus() error {
	log := b.app.logger.WithComponent("event")
	b.app.bus = event.NewBus(event.WithPanicHandler(func(ev event.Event, id string, recovered any) {
		log.Error("handler %s panicked on %s: %v", id, ev.Topic, recovered)
	}))
	return nil
}

func (b *bootstrapper) initEngine() error {
	eng, err := engine.New(b.app.config.Calculator().EngineOptions()...)
	if err != nil {
		return err
	}
	b.app.engine = eng
	b.app.tape = history.NewTape(b.app.config.History().MaxEntries)
	b.app.showHistory = b.app.config.UI().ShowHistory
	return nil
}

func (b *bootstrapper) initDispatcher() error {
	cfg := dispatcher.DefaultConfig()
	if b.opts.Debug {
		cfg = cfg.WithMetrics()
	}
	d := dispatcher.New(cfg)

	hook := dispatcher.NewLoggingHook(b.app.logger.WithComponent("dispatcher"))
	d.RegisterPreHook(hook)
	d.RegisterPostHook(hook)

	d.RegisterNamespace(calchandler.NewHandler(b.app.engine, calchandler.WithPublisher(b.app.bus)))
	d.RegisterNamespace(newAppHandler(b.app))

	b.app.dispatcher = d
	return nil
}

func (b *bootstrapper) initKeymaps() error {
	b.app.keymaps = keymap.NewRegistry()
	if err := keymap.LoadDefaults(b.app.keymaps); err != nil {
		return err
	}
	b.app.loadUserKeymap()
	return nil
}

func (b *bootstrapper) initSubscriptions() error {
	return b.app.subscribe()
}

// initScripts starts the Lua host and runs the configured scripts. A
// failing script is logged and skipped.
func (b *bootstrapper) initScripts() error {
	plugins := b.app.config.Plugins()
	if !plugins.Enabled {
		return nil
	}
	if err := b.app.startScripts(); err != nil {
		return err
	}
	if b.opts.NoScripts {
		return nil
	}

	for _, path := range plugins.Scripts {
		if err := b.app.scripts.LoadFile(context.Background(), path); err != nil {
			b.app.logger.Warn("%v", err)
			continue
		}
		b.app.logger.Info("loaded script %s", path)
	}
	return nil
}

// startScripts creates the Lua host if it does not exist yet.
func (app *Application) startScripts() error {
	if app.scripts != nil {
		return nil
	}
	host, err := lua.NewHost(lua.HostConfig{
		Dispatcher: app.dispatcher,
		Calculator: app.engine,
		Bus:        app.bus,
		Logger:     app.logger.WithComponent("lua"),
		Timeout:    app.config.Plugins().Timeout,
	})
	if err != nil {
		return err
	}
	app.scripts = host
	return nil
}

// loadUserKeymap installs the configured bindings over the defaults,
// replacing any earlier user keymap, and reports bindings nothing handles.
func (app *Application) loadUserKeymap() {
	if err := app.installUserKeymap(); err != nil {
		app.logger.Warn("keymap: %v", err)
	}
	app.checkBindings()
}

func (app *Application) installUserKeymap() error {
	km, err := app.config.UserKeymap()
	if err != nil {
		return err
	}
	if len(km.Bindings) == 0 {
		app.keymaps.Unregister(keymap.UserKeymapName)
		return nil
	}
	return app.keymaps.Register(km)
}
