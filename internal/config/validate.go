package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/dshills/keycalc/internal/config/loader"
	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/input/keymap"
)

// maxHistoryEntries caps history.maxEntries.
const maxHistoryEntries = 10_000

// validate checks a merged configuration tree. All problems are reported
// together, each as a *ValidationError or *TypeError.
func validate(data map[string]any) error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(checkString(data, "calculator.separator", func(s string) error {
		r, size := utf8.DecodeRuneInString(s)
		if size != len(s) || !engine.ValidSeparator(r) {
			return &ValidationError{Path: "calculator.separator", Message: `must be "," or "."`, Value: s, Code: ErrCodeInvalidEnum}
		}
		return nil
	}))
	add(checkSymbols(data))
	add(checkString(data, "ui.theme", oneOf("ui.theme", Themes)))
	add(checkBool(data, "ui.showKeypad"))
	add(checkBool(data, "ui.showHistory"))
	add(checkInt(data, "history.maxEntries", 1, maxHistoryEntries))
	add(checkString(data, "logging.level", oneOf("logging.level", LogLevels)))
	add(checkString(data, "logging.file", nil))
	add(checkBool(data, "plugins.enabled"))
	add(checkString(data, "plugins.timeout", func(s string) error {
		if d, err := time.ParseDuration(s); err != nil || d < 0 {
			return &ValidationError{Path: "plugins.timeout", Message: "must be a non-negative duration", Value: s, Code: ErrCodeOutOfRange}
		}
		return nil
	}))
	if v, ok := loader.GetByPath(data, "plugins.scripts"); ok {
		_, err := asStringSlice("plugins.scripts", v)
		add(err)
	}
	if v, ok := loader.GetByPath(data, "keymap.bindings"); ok {
		bindings, err := parseBindings("keymap.bindings", v)
		add(err)
		if err == nil {
			if _, err := keymap.UserKeymap(bindings); err != nil {
				add(&ValidationError{Path: "keymap.bindings", Message: err.Error(), Value: len(bindings), Code: ErrCodeInvalidBinding})
			}
		}
	}

	return errors.Join(errs...)
}

func checkString(data map[string]any, path string, check func(string) error) error {
	v, ok := loader.GetByPath(data, path)
	if !ok {
		return nil
	}
	s, err := asString(path, v)
	if err != nil {
		return err
	}
	if check != nil {
		return check(s)
	}
	return nil
}

func checkBool(data map[string]any, path string) error {
	v, ok := loader.GetByPath(data, path)
	if !ok {
		return nil
	}
	_, err := asBool(path, v)
	return err
}

// checkInt validates an integer setting within [lo, hi]; hi < 0 means unbounded.
func checkInt(data map[string]any, path string, lo, hi int) error {
	v, ok := loader.GetByPath(data, path)
	if !ok {
		return nil
	}
	n, err := asInt(path, v)
	if err != nil {
		return err
	}
	if n < lo || (hi >= 0 && n > hi) {
		msg := fmt.Sprintf("must be at least %d", lo)
		if hi >= 0 {
			msg = fmt.Sprintf("must be between %d and %d", lo, hi)
		}
		return &ValidationError{Path: path, Message: msg, Value: n, Code: ErrCodeOutOfRange}
	}
	return nil
}

func oneOf(path string, allowed []string) func(string) error {
	return func(s string) error {
		if slices.Contains(allowed, s) {
			return nil
		}
		return &ValidationError{Path: path, Message: fmt.Sprintf("must be one of %v", allowed), Value: s, Code: ErrCodeInvalidEnum}
	}
}

func checkSymbols(data map[string]any) error {
	v, ok := loader.GetByPath(data, "calculator.symbols")
	if !ok {
		return nil
	}
	table, ok := v.(map[string]any)
	if !ok {
		return &TypeError{Path: "calculator.symbols", Expected: "table", Actual: typeName(v)}
	}

	def := engine.DefaultSymbols()
	get := func(name, fallback string) (string, error) {
		raw, ok := table[name]
		if !ok {
			return fallback, nil
		}
		return asString("calculator.symbols."+name, raw)
	}

	var set engine.SymbolSet
	var errs []error
	var err error
	if set.Add, err = get("add", def.Add); err != nil {
		errs = append(errs, err)
	}
	if set.Subtract, err = get("subtract", def.Subtract); err != nil {
		errs = append(errs, err)
	}
	if set.Multiply, err = get("multiply", def.Multiply); err != nil {
		errs = append(errs, err)
	}
	if set.Divide, err = get("divide", def.Divide); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if err := set.Validate(); err != nil {
		return &ValidationError{Path: "calculator.symbols", Message: err.Error(), Value: set, Code: ErrCodeInvalidEnum}
	}
	return nil
}

// parseBindings converts the [[keymap.bindings]] array into bindings.
func parseBindings(path string, v any) ([]keymap.Binding, error) {
	var tables []map[string]any
	switch list := v.(type) {
	case []map[string]any:
		tables = list
	case []any:
		tables = make([]map[string]any, 0, len(list))
		for i, item := range list {
			t, ok := item.(map[string]any)
			if !ok {
				return nil, &TypeError{Path: fmt.Sprintf("%s[%d]", path, i), Expected: "table", Actual: typeName(item)}
			}
			tables = append(tables, t)
		}
	default:
		return nil, &TypeError{Path: path, Expected: "array of tables", Actual: typeName(v)}
	}

	bindings := make([]keymap.Binding, 0, len(tables))
	for i, t := range tables {
		at := fmt.Sprintf("%s[%d]", path, i)
		b, err := parseBinding(at, t)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

func parseBinding(path string, t map[string]any) (keymap.Binding, error) {
	field := func(name string) (string, error) {
		raw, ok := t[name]
		if !ok {
			return "", nil
		}
		return asString(path+"."+name, raw)
	}

	var b keymap.Binding
	var err error
	if b.Keys, err = field("keys"); err != nil {
		return b, err
	}
	if b.Action, err = field("action"); err != nil {
		return b, err
	}
	if b.Description, err = field("description"); err != nil {
		return b, err
	}
	if b.Category, err = field("category"); err != nil {
		return b, err
	}
	if raw, ok := t["priority"]; ok {
		if b.Priority, err = asInt(path+".priority", raw); err != nil {
			return b, err
		}
	}
	if raw, ok := t["args"]; ok {
		args, ok := raw.(map[string]any)
		if !ok {
			return b, &TypeError{Path: path + ".args", Expected: "table", Actual: typeName(raw)}
		}
		b.Args = maps.Clone(args)
	}

	if b.Keys == "" || b.Action == "" {
		return b, &ValidationError{Path: path, Message: "keys and action are required", Value: t, Code: ErrCodeInvalidBinding}
	}
	return b, nil
}
