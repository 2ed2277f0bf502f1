package prefsink

import (
	"maps"
	"slices"
)

// Jar exposes prioritized lookup over a namespace's preferences. Values set
// in the preference file win over environment variables, which win over the
// caller's default. A Jar never changes after construction and is safe for
// concurrent reads.
type Jar struct {
	namespace string
	source    string
	values    map[string]any
	cfg       jarConfig
}

// JarOption configures a Jar.
type JarOption func(*jarConfig)

type jarConfig struct {
	env       Environment
	evaluator Evaluator
	observer  EvaluationObserver
}

func applyJarOptions(opts []JarOption) jarConfig {
	cfg := jarConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.env == nil {
		cfg.env = OSEnvironment{}
	}
	if cfg.observer == nil {
		cfg.observer = nopObserver{}
	}
	return cfg
}

// WithEnvironment replaces the environment consulted by Get.
func WithEnvironment(env Environment) JarOption {
	return func(cfg *jarConfig) {
		cfg.env = env
	}
}

// Create wraps values loaded from source. A nil map yields an empty jar and
// an empty source means no file was found.
func Create(namespace string, values map[string]any, source string) *Jar {
	return NewJar(namespace, values, source)
}

// NewJar is Create with options.
func NewJar(namespace string, values map[string]any, source string, opts ...JarOption) *Jar {
	copied := maps.Clone(values)
	if copied == nil {
		copied = map[string]any{}
	}
	return &Jar{
		namespace: namespace,
		source:    source,
		values:    copied,
		cfg:       applyJarOptions(opts),
	}
}

// Namespace returns the namespace the jar was created for.
func (j *Jar) Namespace() string {
	return j.namespace
}

// Source returns the file the values were loaded from. ok is false when no
// preference file was found.
func (j *Jar) Source() (path string, ok bool) {
	return j.source, j.source != ""
}

// Get returns the value for key. A key present in the preference file is
// returned as is, even when nil or false. Otherwise the environment variable
// named by EnvVarName is used when set, then def[0]. Without a default, Get
// returns nil.
func (j *Jar) Get(key string, def ...any) any {
	if value, ok := j.Lookup(key); ok {
		return value
	}
	if len(def) > 0 {
		return def[0]
	}
	return nil
}

// Lookup is Get without a default; ok reports whether the file or the
// environment supplied a value.
func (j *Jar) Lookup(key string) (any, bool) {
	if value, ok := j.values[key]; ok {
		return value, true
	}
	if value, ok := j.cfg.env.LookupEnv(EnvVarName(j.namespace, key)); ok {
		return value, true
	}
	return nil, false
}

// EnvVarName returns the environment variable consulted for key.
func (j *Jar) EnvVarName(key string) string {
	return EnvVarName(j.namespace, key)
}

// Keys returns the keys defined by the preference file, sorted.
func (j *Jar) Keys() []string {
	return slices.Sorted(maps.Keys(j.values))
}

// Values returns a shallow copy of the values defined by the preference file.
func (j *Jar) Values() map[string]any {
	return maps.Clone(j.values)
}
