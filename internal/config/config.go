package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/keycalc/internal/config/loader"
	"github.com/dshills/keycalc/internal/config/watcher"
)

// DefaultFileName is the config file looked up in the user config directory.
const DefaultFileName = "config.toml"

// Config provides access to the merged keycalc configuration.
type Config struct {
	mu sync.RWMutex

	// Merged view: defaults, then the TOML file, then the environment.
	data map[string]any

	path      string
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool

	watcher *watcher.Watcher

	// configErrors stores type problems met by the section accessors.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath sets the TOML file to load. An empty path loads no file.
func WithPath(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFileSystem sets the file system used to read the config file.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithEnvironment enables or disables the environment overlay.
func WithEnvironment(enable bool) Option {
	return func(c *Config) {
		c.useEnv = enable
	}
}

// New creates a Config holding the built-in defaults. Call Load to read
// the file and environment.
func New(opts ...Option) *Config {
	c := &Config{
		data:      defaultConfig(),
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "keycalc", DefaultFileName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "keycalc", DefaultFileName)
}

// Path returns the config file path, or "" when none is used.
func (c *Config) Path() string {
	return c.path
}

// Load reads defaults, the TOML file and the environment, validates the
// result and installs it. On any error the previous configuration stays
// in effect.
func (c *Config) Load(_ context.Context) error {
	loaders := []loader.Loader{loader.NewTOMLLoaderWithFS(c.fs, c.path)}
	if c.useEnv {
		loaders = append(loaders, loader.NewEnvLoader(c.envPrefix))
	}

	data, err := loader.Chain(defaultConfig(), loaders...)
	if err != nil {
		return err
	}
	if err := validate(data); err != nil {
		return err
	}

	c.mu.Lock()
	c.data = data
	c.configErrors = nil
	c.mu.Unlock()
	return nil
}

// Watch reloads the configuration whenever the config file changes and
// reports each attempt to onReload. Callbacks run on a background goroutine.
func (c *Config) Watch(onReload func(error)) error {
	if c.path == "" {
		return ErrNoConfigFile
	}

	w, err := watcher.New(c.path, watcher.WithErrorHandler(func(err error) {
		onReload(fmt.Errorf("watching %s: %w", c.path, err))
	}))
	if err != nil {
		return fmt.Errorf("watching %s: %w", c.path, err)
	}
	w.OnChange(func(watcher.Event) {
		onReload(c.Load(context.Background()))
	})

	c.mu.Lock()
	old := c.watcher
	c.watcher = w
	c.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Close stops watching the config file.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()
	if w != nil {
		w.Close()
	}
}

// Get returns the value at the given path.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.GetByPath(c.data, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	return asString(path, v)
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	return asInt(path, v)
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	return asBool(path, v)
}

// GetStringSlice returns a string slice at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	return asStringSlice(path, v)
}

// Set changes one setting in memory. The change is validated against the
// whole configuration and rejected if invalid.
func (c *Config) Set(path string, value any) error {
	if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") || strings.Contains(path, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data := loader.Clone(c.data)
	loader.SetByPath(data, path, value)
	if err := validate(data); err != nil {
		return err
	}
	c.data = data
	return nil
}

// Merged returns a copy of the full configuration tree.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.data)
}

// ConfigErrors returns type problems met by section accessors since the
// last successful Load.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// defaultConfig returns the built-in configuration.
func defaultConfig() map[string]any {
	return map[string]any{
		"calculator": map[string]any{
			"separator": ",",
			"symbols": map[string]any{
				"add":      "+",
				"subtract": "-",
				"multiply": "×",
				"divide":   "÷",
			},
		},
		"ui": map[string]any{
			"theme":       "dark",
			"showKeypad":  true,
			"showHistory": false,
		},
		"history": map[string]any{
			"maxEntries": 50,
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"keymap": map[string]any{
			"bindings": []any{},
		},
		"plugins": map[string]any{
			"enabled": true,
			"scripts": []any{},
			"timeout": "2s",
		},
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64:
		return "int"
	case float64:
		return "float"
	case []any, []string:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func asString(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

func asInt(path string, v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

func asBool(path string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

func asStringSlice(path string, v any) ([]string, error) {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: fmt.Sprintf("%s[%d]", path, i), Expected: "string", Actual: typeName(item)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}
