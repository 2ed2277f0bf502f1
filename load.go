package prefsink

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-prefsink/pkg/activity"
)

// LoadResult is delivered by Preferences.Load. Exactly one of Jar and Err is
// set.
type LoadResult struct {
	Jar *Jar
	Err error
}

// Preferences resolves, loads and wraps namespaced preference files.
type Preferences struct {
	cfg preferencesConfig
}

// Option configures Preferences.
type Option func(*preferencesConfig)

type preferencesConfig struct {
	resolver *Resolver
	loader   Loader
	jarOpts  []JarOption
	logger   *slog.Logger
	emitter  *activity.Emitter
}

func applyOptions(opts []Option) preferencesConfig {
	cfg := preferencesConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.resolver == nil {
		cfg.resolver = defaultResolver
	}
	if cfg.loader == nil {
		cfg.loader = DefaultLoader()
	}
	cfg.logger = loggerOrDiscard(cfg.logger)
	return cfg
}

// WithResolver replaces the resolver used to find preference files.
func WithResolver(resolver *Resolver) Option {
	return func(cfg *preferencesConfig) {
		cfg.resolver = resolver
	}
}

// WithLoader replaces the loader used to read preference files.
func WithLoader(loader Loader) Option {
	return func(cfg *preferencesConfig) {
		cfg.loader = loader
	}
}

// WithJarOptions applies opts to every jar created by Load and LoadSync.
func WithJarOptions(opts ...JarOption) Option {
	return func(cfg *preferencesConfig) {
		cfg.jarOpts = append(cfg.jarOpts, opts...)
	}
}

// WithLogger attaches a logger for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *preferencesConfig) {
		cfg.logger = logger
	}
}

// WithActivityHooks reports every load to hooks.
func WithActivityHooks(hooks activity.Hooks, cfg activity.Config) Option {
	cfg.Enabled = true
	emitter := activity.NewEmitter(hooks, cfg)
	return func(c *preferencesConfig) {
		c.emitter = emitter
	}
}

// New constructs Preferences. Without options it uses the default resolver
// and DefaultLoader.
func New(opts ...Option) *Preferences {
	return &Preferences{cfg: applyOptions(opts)}
}

var defaultPreferences = New()

// Resolver returns the resolver used by p.
func (p *Preferences) Resolver() *Resolver {
	return p.cfg.resolver
}

// Load resolves and loads namespace on a background goroutine. Exactly one
// LoadResult is delivered on the returned channel. A namespace without a
// preference file yields an empty jar, not an error.
func (p *Preferences) Load(namespace string) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	resolution := p.cfg.resolver.FindFile(namespace)
	go func() {
		defer close(out)
		res := <-resolution
		jar, err := p.build(namespace, res.Path, res.Found)
		out <- LoadResult{Jar: jar, Err: err}
	}()
	return out
}

// LoadSync resolves and loads namespace on the calling goroutine. Resolution
// never fails; the returned error is always a *LoadError for a preference
// file that exists but could not be loaded.
func (p *Preferences) LoadSync(namespace string) (*Jar, error) {
	path, found := p.cfg.resolver.FindFileSync(namespace)
	return p.build(namespace, path, found)
}

func (p *Preferences) build(namespace, path string, found bool) (*Jar, error) {
	if !found {
		p.emit(activity.BuildMissingEvent(activity.PreferenceEventInput{Namespace: namespace}))
		return NewJar(namespace, nil, "", p.cfg.jarOpts...), nil
	}

	values, err := p.cfg.loader.Load(path)
	if err != nil {
		err = wrapLoadError(namespace, path, err)
		p.cfg.logger.Warn("preference file failed to load",
			slog.String("namespace", namespace),
			slog.String("path", path),
			slog.Any("error", err),
		)
		p.emit(activity.BuildLoadFailedEvent(activity.PreferenceEventInput{
			Namespace: namespace,
			Source:    path,
			Err:       err,
		}))
		return nil, err
	}

	jar := NewJar(namespace, values, path, p.cfg.jarOpts...)
	p.cfg.logger.Debug("preferences loaded",
		slog.String("namespace", namespace),
		slog.String("path", path),
		slog.Int("keys", len(jar.values)),
	)
	p.emit(activity.BuildLoadedEvent(activity.PreferenceEventInput{
		Namespace: namespace,
		Source:    path,
		Keys:      jar.Keys(),
	}))
	return jar, nil
}

func (p *Preferences) emit(event activity.Event) {
	if !p.cfg.emitter.Enabled() {
		return
	}
	if err := p.cfg.emitter.Emit(context.Background(), event); err != nil {
		p.cfg.logger.Warn("activity hook failed",
			slog.String("verb", event.Verb),
			slog.String("namespace", event.ObjectID),
			slog.Any("error", err),
		)
	}
}

// Load loads namespace with the default configuration.
func Load(namespace string) <-chan LoadResult {
	return defaultPreferences.Load(namespace)
}

// LoadSync loads namespace with the default configuration.
func LoadSync(namespace string) (*Jar, error) {
	return defaultPreferences.LoadSync(namespace)
}
