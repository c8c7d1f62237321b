package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/dshills/keycalc/internal/config"
	calchandler "github.com/dshills/keycalc/internal/dispatcher/handlers/calc"
	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/event"
	"github.com/dshills/keycalc/internal/input/keymap"
	"github.com/dshills/keycalc/internal/renderer"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

type fixture struct {
	app     *Application
	backend *backend.NullBackend
	log     *bytes.Buffer
	dir     string
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newFixture builds an application from configTOML without running the
// loop. Events are fed through handleBackendEvent.
func newFixture(t *testing.T, configTOML string) *fixture {
	t.Helper()
	return newFixtureWith(t, configTOML, Options{LogLevel: "debug"})
}

func newFixtureWith(t *testing.T, configTOML string, opts Options) *fixture {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFileName)
	writeFile(t, path, configTOML)

	log := &bytes.Buffer{}
	opts.ConfigPath = path
	opts.LogOutput = log
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(app.Shutdown)

	b := backend.NewNullBackend(80, 24)
	if err := app.SetBackend(b); err != nil {
		t.Fatal(err)
	}
	app.renderer = renderer.New(b, app.rendererOptions())
	app.applyTheme()
	app.render()

	return &fixture{app: app, backend: b, log: log, dir: dir}
}

func runeEvent(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func (f *fixture) keys(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		if err := f.app.handleBackendEvent(runeEvent(r)); err != nil {
			t.Fatalf("key %q: %v", r, err)
		}
	}
}

func (f *fixture) display() string {
	return f.app.Engine().Projection().Display
}

func TestCalculationUpdatesScreenAndHistory(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	f.keys(t, "12+3")
	g.Expect(f.app.Engine().Projection().PendingExpression).To(Equal("12 +"))

	f.keys(t, "=")
	g.Expect(f.display()).To(Equal("15"))
	g.Expect(f.app.History().Len()).To(Equal(1))
	g.Expect(f.app.History().Entries()[0].String()).To(Equal("12 + 3 = 15"))

	screen := ""
	for y := range 24 {
		screen += f.backend.Row(y) + "\n"
	}
	g.Expect(screen).To(ContainSubstring("15"))
	g.Expect(f.app.Metrics().Snapshot().RenderCount).To(BeNumerically(">=", 6))
}

func TestDivisionByZeroShowsNotice(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	f.keys(t, "5/0=")
	g.Expect(f.app.Notice()).To(Equal(calchandler.MsgDivisionByZero))
	g.Expect(f.backend.Beeps()).To(Equal(1))
	g.Expect(f.app.Engine().Projection().PendingExpression).To(Equal("5 ÷"))
	g.Expect(f.app.History().Len()).To(BeZero())

	// The next key only dismisses the notice.
	f.keys(t, "7")
	g.Expect(f.app.Notice()).To(BeEmpty())
	g.Expect(f.display()).To(Equal("0"))

	f.keys(t, "8")
	g.Expect(f.display()).To(Equal("8"))
	g.Expect(f.app.Metrics().Snapshot().Notices).To(Equal(uint64(1)))
}

func TestInvariantErrorsLogAtErrorLevel(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	publish := func(action string, err error) {
		t.Helper()
		ev := event.New(event.TopicError, event.ErrorPayload{Action: action, Err: err}, "test")
		if err := f.app.bus.Publish(context.Background(), ev); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	publish("calc.equals", fmt.Errorf("%w: bad state", engine.ErrInvariant))
	publish("calc.divide", engine.ErrDivisionByZero)

	out := f.log.String()
	g.Expect(out).To(MatchRegexp(`\[ERROR\] .*calc\.equals: engine invariant violated`))
	g.Expect(out).To(MatchRegexp(`\[WARN\] .*calc\.divide: division by zero`))
}

func TestSpecialKeys(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	f.keys(t, "123")
	g.Expect(f.app.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyBackspace})).To(Succeed())
	g.Expect(f.display()).To(Equal("12"))

	f.keys(t, "+4")
	g.Expect(f.app.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyDelete})).To(Succeed())
	g.Expect(f.display()).To(Equal("0"))
	g.Expect(f.app.Engine().Projection().PendingExpression).To(Equal("12 +"))

	g.Expect(f.app.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})).To(Succeed())
	g.Expect(f.app.Engine().Projection().PendingExpression).To(BeEmpty())

	f.keys(t, "7*6")
	g.Expect(f.app.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyEnter})).To(Succeed())
	g.Expect(f.display()).To(Equal("42"))
}

func TestQuitKeys(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	g.Expect(f.app.handleBackendEvent(runeEvent('q'))).To(MatchError(ErrQuit))
	ctrlC := backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'c', Mod: backend.ModCtrl}
	g.Expect(f.app.handleBackendEvent(ctrlC)).To(MatchError(ErrQuit))
	g.Expect(f.app.handleBackendEvent(backend.Event{Type: backend.EventClosed})).To(MatchError(ErrQuit))
	g.Expect(f.app.handleBackendEvent(backend.Event{Type: backend.EventInterrupt, Data: shutdownRequest{}})).To(MatchError(ErrQuit))
}

func TestUnboundKeyIsIgnored(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	f.keys(t, "4x")
	g.Expect(f.display()).To(Equal("4"))
	g.Expect(f.app.Metrics().Snapshot().UnboundKeys).To(Equal(uint64(1)))
}

func TestMouseClickPressesButton(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	click := func(label string) {
		t.Helper()
		for _, b := range f.app.Renderer().Layout().Buttons {
			if b.Label == label {
				g.Expect(f.app.handleBackendEvent(backend.Event{
					Type:        backend.EventMouse,
					MouseX:      b.Rect.Left,
					MouseY:      b.Rect.Top,
					MouseButton: backend.MouseLeft,
				})).To(Succeed())
				return
			}
		}
		t.Fatalf("no button %q", label)
	}

	click("7")
	click("+")
	click("8")
	click("=")
	g.Expect(f.display()).To(Equal("15"))

	// Other buttons and clicks outside the keypad do nothing.
	g.Expect(f.app.handleBackendEvent(backend.Event{Type: backend.EventMouse, MouseX: 79, MouseY: 23, MouseButton: backend.MouseLeft})).To(Succeed())
	g.Expect(f.app.handleBackendEvent(backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseNone})).To(Succeed())
	g.Expect(f.display()).To(Equal("15"))
}

func TestToggleHistory(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	g.Expect(f.app.Renderer().Options().ShowHistory).To(BeFalse())
	f.keys(t, "h")
	g.Expect(f.app.Renderer().Options().ShowHistory).To(BeTrue())
	f.keys(t, "h")
	g.Expect(f.app.Renderer().Options().ShowHistory).To(BeFalse())
}

func (f *fixture) screen() string {
	var b strings.Builder
	_, h := f.backend.Size()
	for y := range h {
		b.WriteString(f.backend.Row(y))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestToggleHelp(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	f.keys(t, "?")
	g.Expect(f.app.Renderer().Options().ShowHelp).To(BeTrue())
	screen := f.screen()
	g.Expect(screen).To(ContainSubstring("Keys"))
	g.Expect(screen).To(ContainSubstring("Operators"))
	g.Expect(screen).To(ContainSubstring("Toggle key help"))

	f.keys(t, "?")
	g.Expect(f.app.Renderer().Options().ShowHelp).To(BeFalse())
	g.Expect(f.app.Renderer().Layout().History.IsEmpty()).To(BeTrue())
}

func TestHelpLines(t *testing.T) {
	g := NewWithT(t)
	lines := helpLines([]keymap.Binding{
		{Keys: "+", Action: "calc.operator", Description: "Add", Category: "Operators"},
		{Keys: "KP+", Action: "calc.operator", Description: "Add", Category: "Operators"},
		{Keys: "z", Action: "calc.clear"},
	})
	g.Expect(lines).To(Equal([]string{
		"Operators",
		"  + KP+     Add",
		"Other",
		"  z         calc.clear",
	}))
}

func TestBindingToUnknownActionWarns(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, `
[[keymap.bindings]]
keys = "s"
action = "calc.sqrt"
`)

	g.Expect(f.log.String()).To(ContainSubstring("s is bound to unknown action calc.sqrt"))
	g.Expect(f.log.String()).NotTo(ContainSubstring("unknown action calc.digit"))
}

func TestDebugShutdownLogsDispatchStats(t *testing.T) {
	g := NewWithT(t)
	f := newFixtureWith(t, "", Options{Debug: true})

	f.keys(t, "12+3=")
	f.app.Shutdown()

	out := f.log.String()
	g.Expect(out).To(ContainSubstring("dispatched 5 actions (0 errors, 0 panics)"))
	g.Expect(out).To(MatchRegexp(`calc\.digit: 3 calls, 0 errors`))
}

func TestShutdownWithoutDebugOmitsDispatchStats(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	f.keys(t, "1+1=")
	f.app.Shutdown()
	g.Expect(f.log.String()).NotTo(ContainSubstring("dispatched"))
}

func TestConfigApplied(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, `
[calculator]
separator = "."

[ui]
theme = "light"
showHistory = true

[history]
maxEntries = 2

[[keymap.bindings]]
keys = "x"
action = "calc.operator"
args = { operator = "multiply" }
`)

	g.Expect(f.app.Renderer().Theme().Name).To(Equal("light"))
	g.Expect(f.app.Renderer().Options().ShowHistory).To(BeTrue())

	f.keys(t, "1.5x4=")
	g.Expect(f.display()).To(Equal("6"))

	f.keys(t, "+1=+1=")
	g.Expect(f.app.History().Len()).To(Equal(2))
}

func TestBadConfigFallsBackToDefaults(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "[calculator]\nseparator = \"x\"\n")

	g.Expect(f.app.Engine().Separator()).To(Equal(','))
	g.Expect(f.log.String()).To(ContainSubstring("using defaults"))
}

func TestReloadAppliesConfig(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	var payloads []event.ConfigPayload
	_, err := f.app.Bus().Subscribe(event.TopicConfigReloaded, func(_ context.Context, ev event.Event) error {
		payloads = append(payloads, ev.Payload.(event.ConfigPayload))
		return nil
	})
	g.Expect(err).NotTo(HaveOccurred())

	f.keys(t, "2,5")
	writeFile(t, f.app.Config().Path(), `
[calculator]
separator = "."

[ui]
theme = "mono"

[[keymap.bindings]]
keys = "x"
action = "calc.clear"
`)
	g.Expect(f.app.Config().Load(context.Background())).To(Succeed())
	g.Expect(f.app.handleBackendEvent(backend.Event{Type: backend.EventInterrupt, Data: reloadRequest{}})).To(Succeed())

	g.Expect(f.display()).To(Equal("2.5"))
	g.Expect(f.app.Renderer().Theme().Name).To(Equal("mono"))
	g.Expect(payloads).To(HaveLen(1))
	g.Expect(payloads[0].Err).NotTo(HaveOccurred())

	f.keys(t, "x")
	g.Expect(f.display()).To(Equal("0"))
}

func TestReloadFailureKeepsSettings(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "[ui]\ntheme = \"light\"\n")

	g.Expect(f.app.handleBackendEvent(backend.Event{
		Type: backend.EventInterrupt,
		Data: reloadRequest{err: errors.New("parse error")},
	})).To(Succeed())

	g.Expect(f.app.Renderer().Theme().Name).To(Equal("light"))
	g.Expect(f.app.Metrics().Snapshot().ReloadErrors).To(Equal(uint64(1)))
	g.Expect(f.log.String()).To(ContainSubstring("config reload"))
}

func TestStartupScripts(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "init.lua"), `calc.digits("9")`)
	writeFile(t, filepath.Join(dir, "broken.lua"), `this is not lua`)
	path := filepath.Join(dir, config.DefaultFileName)
	writeFile(t, path, "[plugins]\nscripts = [\"broken.lua\", \"init.lua\"]\n")

	log := &bytes.Buffer{}
	app, err := New(Options{ConfigPath: path, LogOutput: log})
	g.Expect(err).NotTo(HaveOccurred())
	defer app.Shutdown()

	g.Expect(app.Engine().Projection().Display).To(Equal("9"))
	g.Expect(log.String()).To(ContainSubstring("broken.lua"))
	g.Expect(log.String()).To(ContainSubstring("loaded script"))
}

func TestScriptsDisabled(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "[plugins]\nenabled = false\n")
	g.Expect(f.app.Scripts()).To(BeNil())
}

func TestRunScript(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "[plugins]\nenabled = false\n")

	script := filepath.Join(f.dir, "product.lua")
	writeFile(t, script, `
calc.digits("6")
calc.press("operator", "multiply")
calc.digits("7")
calc.press("equals")
`)
	p, err := f.app.RunScript(context.Background(), script)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(p.Display).To(Equal("42"))
	g.Expect(f.app.History().Len()).To(Equal(1))

	_, err = f.app.RunScript(context.Background(), filepath.Join(f.dir, "missing.lua"))
	var opErr *OperationError
	g.Expect(errors.As(err, &opErr)).To(BeTrue())
	g.Expect(opErr.Op).To(Equal("run"))
}

func TestRunLoop(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	for _, r := range "2*3=q" {
		f.backend.PostEvent(runeEvent(r))
	}
	g.Expect(f.app.Run()).To(Succeed())
	g.Expect(f.display()).To(Equal("6"))
	g.Expect(f.app.IsRunning()).To(BeFalse())
	g.Expect(f.app.Metrics().Snapshot().InputCount).To(Equal(uint64(5)))
}

func TestRunWithoutBackend(t *testing.T) {
	g := NewWithT(t)
	app, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "none.toml")})
	g.Expect(err).NotTo(HaveOccurred())
	defer app.Shutdown()
	g.Expect(app.Run()).To(MatchError(ErrNoBackend))
}

func TestShutdownFromAnotherGoroutine(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, "")

	done := make(chan error, 1)
	go func() { done <- f.app.Run() }()

	g.Eventually(f.app.IsRunning).Should(BeTrue())
	f.app.Shutdown()
	g.Eventually(done, 5*time.Second).Should(Receive(BeNil()))

	f.app.Shutdown()
	f.app.Shutdown()
	g.Expect(f.app.Scripts().RunString(context.Background(), "x = 1")).To(HaveOccurred())
}

func TestWatchReloadsConfig(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFileName)
	writeFile(t, path, "[calculator]\nseparator = \",\"\n")

	app, err := New(Options{ConfigPath: path, Watch: true})
	g.Expect(err).NotTo(HaveOccurred())
	defer app.Shutdown()
	b := backend.NewNullBackend(80, 24)
	g.Expect(app.SetBackend(b)).To(Succeed())

	reloaded := make(chan event.ConfigPayload, 4)
	_, err = app.Bus().Subscribe(event.TopicConfigReloaded, func(_ context.Context, ev event.Event) error {
		select {
		case reloaded <- ev.Payload.(event.ConfigPayload):
		default:
		}
		return nil
	})
	g.Expect(err).NotTo(HaveOccurred())

	done := make(chan error, 1)
	go func() { done <- app.Run() }()
	g.Eventually(app.IsRunning).Should(BeTrue())

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "[calculator]\nseparator = \".\"\n")

	var p event.ConfigPayload
	g.Eventually(reloaded, 5*time.Second).Should(Receive(&p))
	g.Expect(p.Err).NotTo(HaveOccurred())
	g.Expect(strings.HasSuffix(p.Path, config.DefaultFileName)).To(BeTrue())

	app.Shutdown()
	g.Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	g.Expect(app.Engine().Separator()).To(Equal('.'))
}
