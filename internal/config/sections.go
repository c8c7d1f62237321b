package config

import (
	"errors"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/input/keymap"
)

// Themes lists the accepted values of ui.theme.
var Themes = []string{"dark", "light", "mono"}

// LogLevels lists the accepted values of logging.level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// CalculatorConfig holds [calculator] settings.
type CalculatorConfig struct {
	// Separator is the decimal separator, ',' or '.'.
	Separator rune
	// Symbols are the glyphs shown in the pending expression.
	Symbols engine.SymbolSet
}

// EngineOptions returns engine options applying these settings.
func (cc CalculatorConfig) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithSeparator(cc.Separator),
		engine.WithSymbols(cc.Symbols),
	}
}

// UIConfig holds [ui] settings.
type UIConfig struct {
	Theme       string
	ShowKeypad  bool
	ShowHistory bool
}

// HistoryConfig holds [history] settings.
type HistoryConfig struct {
	MaxEntries int
}

// LoggingConfig holds [logging] settings.
type LoggingConfig struct {
	Level string
	// File is the log destination. Empty means no log file.
	File string
}

// PluginsConfig holds [plugins] settings.
type PluginsConfig struct {
	Enabled bool
	// Scripts are Lua files run at startup, in order.
	Scripts []string
	// Timeout bounds each script call. Zero disables the limit.
	Timeout time.Duration
}

// Calculator returns the calculator settings.
func (c *Config) Calculator() CalculatorConfig {
	sep := c.getStringOr("calculator.separator", ",")
	r, _ := utf8.DecodeRuneInString(sep)
	if !engine.ValidSeparator(r) {
		r = engine.DefaultSeparator
	}

	def := engine.DefaultSymbols()
	return CalculatorConfig{
		Separator: r,
		Symbols: engine.SymbolSet{
			Add:      c.getStringOr("calculator.symbols.add", def.Add),
			Subtract: c.getStringOr("calculator.symbols.subtract", def.Subtract),
			Multiply: c.getStringOr("calculator.symbols.multiply", def.Multiply),
			Divide:   c.getStringOr("calculator.symbols.divide", def.Divide),
		},
	}
}

// UI returns the UI settings.
func (c *Config) UI() UIConfig {
	return UIConfig{
		Theme:       c.getStringOr("ui.theme", "dark"),
		ShowKeypad:  c.getBoolOr("ui.showKeypad", true),
		ShowHistory: c.getBoolOr("ui.showHistory", false),
	}
}

// History returns the history tape settings.
func (c *Config) History() HistoryConfig {
	return HistoryConfig{MaxEntries: c.getIntOr("history.maxEntries", 50)}
}

// Logging returns the logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// Plugins returns the plugin settings.
// Relative script paths are resolved against the config file's directory.
func (c *Config) Plugins() PluginsConfig {
	scripts := c.getStringSliceOr("plugins.scripts", nil)
	if c.path != "" {
		dir := filepath.Dir(c.path)
		for i, s := range scripts {
			if !filepath.IsAbs(s) {
				scripts[i] = filepath.Join(dir, s)
			}
		}
	}
	timeout, _ := time.ParseDuration(c.getStringOr("plugins.timeout", "2s"))
	return PluginsConfig{
		Enabled: c.getBoolOr("plugins.enabled", true),
		Scripts: scripts,
		Timeout: timeout,
	}
}

// Keymap returns the user key bindings from [[keymap.bindings]].
// Load has already rejected malformed entries.
func (c *Config) Keymap() []keymap.Binding {
	v, ok := c.Get("keymap.bindings")
	if !ok {
		return nil
	}
	bindings, err := parseBindings("keymap.bindings", v)
	if err != nil {
		c.recordConfigError("keymap.bindings", err)
		return nil
	}
	return bindings
}

// UserKeymap builds the user keymap from the configured bindings.
func (c *Config) UserKeymap() (*keymap.Keymap, error) {
	return keymap.UserKeymap(c.Keymap())
}

// These helpers return the default on a missing setting. Type errors are
// recorded and also fall back to the default.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return append([]string(nil), defaultValue...)
	}
	return v
}
