package dispatcher

// Config selects optional dispatcher behavior.
type Config struct {
	// EnableMetrics keeps per-action counts and timings, read through
	// Dispatcher.Metrics.
	EnableMetrics bool

	// RecoverFromPanic turns a handler panic into an ErrPanic result.
	RecoverFromPanic bool
}

// DefaultConfig recovers from panics and keeps no metrics.
func DefaultConfig() Config {
	return Config{RecoverFromPanic: true}
}

// WithMetrics returns c with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns c with panic recovery set to on.
func (c Config) WithPanicRecovery(on bool) Config {
	c.RecoverFromPanic = on
	return c
}
