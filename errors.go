package prefsink

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates no loader is registered for a file's
// extension.
var ErrUnsupportedFormat = errors.New("prefsink: unsupported preference format")

// LoadError reports a preference file that was found but could not be
// loaded.
type LoadError struct {
	Namespace string
	Path      string
	Err       error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("prefsink: load %s preferences from %s: %v", describeNamespace(e.Namespace), e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeNamespace(namespace string) string {
	if namespace == "" {
		return "<unnamed>"
	}
	return fmt.Sprintf("%q", namespace)
}

func wrapLoadError(namespace, path string, err error) error {
	if err == nil {
		return nil
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if loadErr.Namespace == "" {
			loadErr.Namespace = namespace
		}
		if loadErr.Path == "" {
			loadErr.Path = path
		}
		return loadErr
	}
	return &LoadError{Namespace: namespace, Path: path, Err: err}
}
