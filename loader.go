package prefsink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var osReadFile = os.ReadFile

// Loader turns the file at path into a preference mapping. A nil mapping is
// treated as empty.
type Loader interface {
	Load(path string) (map[string]any, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(path string) (map[string]any, error)

// Load implements Loader.
func (f LoaderFunc) Load(path string) (map[string]any, error) {
	if f == nil {
		return nil, fmt.Errorf("prefsink: loader is nil")
	}
	return f(path)
}

// ExtensionLoader dispatches to a Loader registered for the file extension.
// Files with no extension, or with an unregistered one, go to the fallback
// loader when set.
type ExtensionLoader struct {
	loaders  map[string]Loader
	fallback Loader
}

// NewExtensionLoader constructs an ExtensionLoader with no registrations.
func NewExtensionLoader() *ExtensionLoader {
	return &ExtensionLoader{loaders: map[string]Loader{}}
}

// DefaultLoader returns the loader used by Load and LoadSync: JavaScript
// modules (also the fallback), JSON, YAML and TOML.
func DefaultLoader(opts ...ScriptOption) *ExtensionLoader {
	script := NewScriptLoader(opts...)
	return NewExtensionLoader().
		Register(Extension, script).
		Register(".json", LoaderFunc(LoadJSON)).
		Register(".yaml", LoaderFunc(LoadYAML)).
		Register(".yml", LoaderFunc(LoadYAML)).
		Register(".toml", LoaderFunc(LoadTOML)).
		Fallback(script)
}

// Register binds loader to ext (with or without the leading dot). Lookups
// are case-insensitive. Register is meant for setup and is not safe to call
// concurrently with Load.
func (l *ExtensionLoader) Register(ext string, loader Loader) *ExtensionLoader {
	if l.loaders == nil {
		l.loaders = map[string]Loader{}
	}
	l.loaders[normalizeExt(ext)] = loader
	return l
}

// Fallback sets the loader used when no extension matches.
func (l *ExtensionLoader) Fallback(loader Loader) *ExtensionLoader {
	l.fallback = loader
	return l
}

// Load implements Loader.
func (l *ExtensionLoader) Load(path string) (map[string]any, error) {
	if loader, ok := l.loaders[fileExt(path)]; ok && loader != nil {
		return loader.Load(path)
	}
	if l.fallback != nil {
		return l.fallback.Load(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// fileExt returns the lower-cased extension of path, ignoring the leading
// dots of dotfiles so ".tool" has no extension while ".tool.js" has ".js".
func fileExt(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	return strings.ToLower(filepath.Ext(base))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
