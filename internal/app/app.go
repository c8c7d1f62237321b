// Package app wires the calculator together and runs its event loop.
//
// Everything that touches the engine, the Lua host or the renderer runs on
// the goroutine that called Run. Other goroutines (the config watcher,
// signal handlers) hand work to the loop by posting interrupt events to the
// backend.
package app

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/engine/history"
	"github.com/dshills/keycalc/internal/event"
	"github.com/dshills/keycalc/internal/input/keymap"
	"github.com/dshills/keycalc/internal/plugin/lua"
	"github.com/dshills/keycalc/internal/renderer"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

// Application is the central coordinator for all keycalc components.
type Application struct {
	opts Options

	config     *config.Config
	logger     *Logger
	logFile    io.Closer
	bus        *event.Bus
	engine     *engine.Engine
	tape       *history.Tape
	dispatcher *dispatcher.Dispatcher
	keymaps    *keymap.Registry
	scripts    *lua.Host
	metrics    *Metrics
	subs       []*event.Subscription

	backend  backend.Backend
	renderer *renderer.Renderer

	// Loop state.
	notice      string
	showHistory bool
	showHelp    bool

	running   atomic.Bool
	closeOnce sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty means
	// config.DefaultPath().
	ConfigPath string

	// Debug forces debug logging and collects dispatch statistics, which
	// are logged at shutdown.
	Debug bool

	// LogLevel overrides logging.level.
	LogLevel string

	// LogFile overrides logging.file.
	LogFile string

	// LogOutput, when set, receives log lines instead of any log file.
	LogOutput io.Writer

	// Watch reloads the configuration when its file changes.
	Watch bool

	// NoScripts skips the startup scripts listed in plugins.scripts.
	NoScripts bool
}

// New creates a new Application with the given options. Configuration
// errors are logged and the defaults are used instead.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}

	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// SetBackend sets the terminal backend. Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Run initializes the backend and processes events until quit. It
// returns nil on a normal quit.
func (app *Application) Run() error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	app.renderer = renderer.New(app.backend, app.rendererOptions())
	app.applyTheme()

	if app.opts.Watch {
		app.watchConfig()
	}

	app.logger.Info("started")
	return app.eventLoop()
}

// Shutdown stops the event loop if it is running, otherwise it releases
// every resource. It is safe to call more than once and from any
// goroutine; call it again after Run returns to release resources.
func (app *Application) Shutdown() {
	if app.running.Load() && app.backend != nil {
		app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: shutdownRequest{}})
		return
	}
	app.close()
}

func (app *Application) close() {
	app.closeOnce.Do(func() {
		app.config.Close()
		if app.scripts != nil {
			app.scripts.Close()
		}
		for _, sub := range app.subs {
			_ = app.bus.Unsubscribe(sub)
		}
		app.bus.Close()
		app.logDispatchStats()
		app.logger.Info("stopped")
		if app.logFile != nil {
			_ = app.logFile.Close()
		}
	})
}

// IsRunning reports whether the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Engine returns the calculator engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// History returns the history tape.
func (app *Application) History() *history.Tape {
	return app.tape
}

// Bus returns the event bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Dispatcher returns the action dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Keymaps returns the keymap registry.
func (app *Application) Keymaps() *keymap.Registry {
	return app.keymaps
}

// Scripts returns the Lua host, or nil when scripting is disabled.
func (app *Application) Scripts() *lua.Host {
	return app.scripts
}

// Renderer returns the renderer. It is nil until Run starts.
func (app *Application) Renderer() *renderer.Renderer {
	return app.renderer
}

// Notice returns the message currently shown, if any.
func (app *Application) Notice() string {
	return app.notice
}

func (app *Application) rendererOptions() renderer.Options {
	calc := app.config.Calculator()
	return renderer.Options{
		ShowKeypad:  app.config.UI().ShowKeypad,
		ShowHistory: app.showHistory,
		ShowHelp:    app.showHelp,
		Symbols:     calc.Symbols,
		Separator:   calc.Separator,
	}
}

func (app *Application) applyTheme() {
	name := app.config.UI().Theme
	theme, ok := renderer.ThemeByName(name)
	if !ok {
		app.logger.Warn("unknown theme %q", name)
		return
	}
	app.renderer.SetTheme(theme)
}

func (app *Application) render() {
	if app.renderer == nil {
		return
	}
	start := time.Now()
	frame := renderer.Frame{
		Projection: app.engine.Projection(),
		History:    app.tape.Entries(),
		Notice:     app.notice,
	}
	if app.showHelp {
		frame.Help = helpLines(app.keymaps.AllBindings())
	}
	app.renderer.Render(frame)
	app.metrics.RecordRender(time.Since(start))
}
