package prefsink

import (
	"cmp"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// NamespacePlaceholder is replaced with the namespace in every location
// template.
const NamespacePlaceholder = "{namespace}"

// Extension is the file extension of preference modules evaluated by the
// script loader.
const Extension = ".js"

var defaultLocations = []string{
	"~/.{namespace}.d/index" + Extension,
	"~/.{namespace}" + Extension,
	"~/.{namespace}",
}

var (
	locationsMu sync.RWMutex
	locations   = append([]string(nil), defaultLocations...)
)

// Home returns the directory candidate paths are rooted at. It is read once
// from USERPROFILE, then HOME; the first non-empty value wins.
var Home = sync.OnceValue(func() string {
	return cmp.Or(os.Getenv("USERPROFILE"), os.Getenv("HOME"))
})

// DefaultLocations returns a copy of the built-in location templates.
func DefaultLocations() []string {
	return append([]string(nil), defaultLocations...)
}

// Locations returns a copy of the process-wide location templates.
func Locations() []string {
	locationsMu.RLock()
	defer locationsMu.RUnlock()
	return append([]string(nil), locations...)
}

// SetLocations replaces the process-wide location templates and returns a
// function that restores the previous list. The list is shared process state:
// callers overriding it for a single resolution must call the restore func
// before anyone else resolves.
func SetLocations(templates ...string) (restore func()) {
	locationsMu.Lock()
	previous := locations
	locations = append([]string(nil), templates...)
	locationsMu.Unlock()
	return func() {
		locationsMu.Lock()
		locations = previous
		locationsMu.Unlock()
	}
}

// ResetLocations restores the built-in location templates.
func ResetLocations() {
	locationsMu.Lock()
	locations = DefaultLocations()
	locationsMu.Unlock()
}

// expandTemplate substitutes namespace into template and roots the result at
// home. Absolute templates are used verbatim.
func expandTemplate(template, namespace, home string) string {
	path := strings.ReplaceAll(template, NamespacePlaceholder, namespace)
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"), strings.HasPrefix(path, `~\`):
		return filepath.Join(home, path[2:])
	case filepath.IsAbs(path):
		return filepath.Clean(path)
	default:
		return filepath.Join(home, path)
	}
}
