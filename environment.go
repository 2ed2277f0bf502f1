package prefsink

import "os"

// Environment is a read-only view of process environment variables.
type Environment interface {
	LookupEnv(name string) (string, bool)
}

// EnvironmentFunc adapts a function to Environment.
type EnvironmentFunc func(name string) (string, bool)

// LookupEnv implements Environment.
func (f EnvironmentFunc) LookupEnv(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	return f(name)
}

// OSEnvironment reads the live process environment.
type OSEnvironment struct{}

// LookupEnv implements Environment.
func (OSEnvironment) LookupEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapEnvironment serves variables from a fixed map.
type MapEnvironment map[string]string

// LookupEnv implements Environment.
func (m MapEnvironment) LookupEnv(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}
