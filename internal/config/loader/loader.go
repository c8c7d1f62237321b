// Package loader reads keycalc configuration sources into plain maps.
//
// Two sources exist: TOML files parsed with go-toml and environment
// variables carrying the KEYCALC_ prefix. Both produce map[string]any
// trees that the config package merges over its built-in defaults.
package loader

import (
	"io"
	"io/fs"
	"os"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist.
	Load() (map[string]any, error)
}

// ReaderLoader is implemented by loaders that can parse an io.Reader.
type ReaderLoader interface {
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem abstracts the file reads a loader performs so tests can
// supply an in-memory tree.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// Chain runs loaders in order and deep-merges their results, later
// loaders overriding earlier ones. Sources that report nothing are skipped.
func Chain(base map[string]any, loaders ...Loader) (map[string]any, error) {
	result := Clone(base)
	if result == nil {
		result = make(map[string]any)
	}
	for _, l := range loaders {
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		result = DeepMerge(result, data)
	}
	return result, nil
}
