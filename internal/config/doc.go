// Package config provides the configuration system for keycalc.
//
// Configuration is built from three sources, later ones overriding
// earlier ones:
//
//  1. Built-in defaults
//  2. The TOML config file (default: $XDG_CONFIG_HOME/keycalc/config.toml)
//  3. Environment variables with the KEYCALC_ prefix
//
// # Sub-packages
//
//   - loader: TOML and environment loading, deep merge
//   - watcher: fsnotify-based change detection for live reload
//
// # Basic Usage
//
//	cfg := config.New(config.WithPath(config.DefaultPath()))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	calc := cfg.Calculator()
//	eng, err := engine.New(calc.EngineOptions()...)
//
// # Configuration File
//
//	[calculator]
//	separator = "."
//	symbols = { multiply = "*", divide = "/" }
//
//	[ui]
//	theme = "light"
//	showHistory = true
//
//	[[keymap.bindings]]
//	keys = "x"
//	action = "calc.operator"
//	args = { operator = "multiply" }
//
//	[plugins]
//	scripts = ["init.lua"]
//
// Relative script paths resolve against the config file's directory.
//
// # Environment
//
// KEYCALC_SEPARATOR, KEYCALC_THEME, KEYCALC_LOG_LEVEL and KEYCALC_LOG_FILE
// are mapped directly. Any other KEYCALC_SECTION_NAME_PARTS variable maps
// to section.nameParts, so KEYCALC_UI_SHOW_HISTORY=true sets ui.showHistory.
//
// # Validation
//
// Load rejects a configuration with an unknown theme or log level, a
// separator other than "," or ".", empty or duplicate operator symbols, or
// key bindings that do not parse. The previous configuration stays in
// effect when a reload fails.
package config
