package engine

// Default configuration values.
const (
	DefaultSeparator = ','
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithSeparator sets the decimal separator used for display and parsing.
func WithSeparator(sep rune) Option {
	return func(e *Engine) {
		e.separator = sep
	}
}

// WithSymbols sets the glyphs used in the pending expression.
func WithSymbols(symbols SymbolSet) Option {
	return func(e *Engine) {
		e.symbols = symbols
	}
}

// WithEvaluationHook registers a function called after every successful
// evaluation. The hook must not call back into the engine.
func WithEvaluationHook(fn func(Evaluation)) Option {
	return func(e *Engine) {
		e.onEvaluate = fn
	}
}
