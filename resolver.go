package prefsink

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// StatFunc reports file metadata for name. os.Stat is the default.
type StatFunc func(name string) (fs.FileInfo, error)

// Resolution is the outcome of a file search. Found is false when no
// candidate exists as a regular file; that is not an error.
type Resolution struct {
	Path  string
	Found bool
}

// Resolver searches the candidate locations of a namespace for the first
// regular file. A Resolver is safe for concurrent use.
type Resolver struct {
	locations []string
	home      string
	homeSet   bool
	stat      StatFunc
	logger    *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// ResolverWithLocations pins the location templates instead of reading the
// process-wide list on every call.
func ResolverWithLocations(templates ...string) ResolverOption {
	return func(r *Resolver) {
		r.locations = append(make([]string, 0, len(templates)), templates...)
	}
}

// ResolverWithHome overrides the directory candidate paths are rooted at.
func ResolverWithHome(home string) ResolverOption {
	return func(r *Resolver) {
		r.home = home
		r.homeSet = true
	}
}

// ResolverWithStat replaces the filesystem probe.
func ResolverWithStat(stat StatFunc) ResolverOption {
	return func(r *Resolver) {
		if stat != nil {
			r.stat = stat
		}
	}
}

// ResolverWithLogger attaches a logger used for probe diagnostics.
func ResolverWithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a Resolver. Without options it probes the
// process-wide locations under Home() using os.Stat.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		stat:   os.Stat,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var defaultResolver = NewResolver()

// DefaultResolver returns the resolver used by the package-level helpers.
func DefaultResolver() *Resolver {
	return defaultResolver
}

// Paths returns the ordered candidate paths for namespace.
func (r *Resolver) Paths(namespace string) []string {
	templates := r.locations
	if templates == nil {
		templates = Locations()
	}
	home := r.home
	if !r.homeSet {
		home = Home()
	}
	paths := make([]string, len(templates))
	for i, template := range templates {
		paths[i] = expandTemplate(template, namespace, home)
	}
	return paths
}

// FindFile searches the candidates of namespace on a background goroutine.
// Candidates are probed one at a time, in order, and the search stops at the
// first regular file. Exactly one Resolution is delivered on the returned
// channel.
func (r *Resolver) FindFile(namespace string) <-chan Resolution {
	paths := r.Paths(namespace)
	out := make(chan Resolution, 1)
	go func() {
		defer close(out)
		path, ok := r.scan(namespace, paths)
		out <- Resolution{Path: path, Found: ok}
	}()
	return out
}

// FindFileSync searches the candidates of namespace on the calling goroutine.
// It never fails: probes that error or panic count as missing files.
func (r *Resolver) FindFileSync(namespace string) (string, bool) {
	return r.scan(namespace, r.Paths(namespace))
}

func (r *Resolver) scan(namespace string, paths []string) (string, bool) {
	for i, path := range paths {
		if r.probe(path) {
			r.logger.Debug("preference file resolved",
				slog.String("namespace", namespace),
				slog.String("path", path),
				slog.Int("candidate", i),
			)
			return path, true
		}
	}
	r.logger.Debug("no preference file found",
		slog.String("namespace", namespace),
		slog.Int("candidates", len(paths)),
	)
	return "", false
}

// probe reports whether path is a regular file.
func (r *Resolver) probe(path string) (ok bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Debug("probe panicked", slog.String("path", path), slog.Any("panic", fmt.Sprint(recovered)))
			ok = false
		}
	}()
	info, err := r.stat(path)
	if err != nil {
		r.logger.Debug("probe skipped", slog.String("path", path), slog.Any("error", err))
		return false
	}
	if info == nil || !info.Mode().IsRegular() {
		r.logger.Debug("probe skipped", slog.String("path", path), slog.String("reason", "not a regular file"))
		return false
	}
	return true
}

// Paths returns the candidate paths of namespace using the default resolver.
func Paths(namespace string) []string {
	return defaultResolver.Paths(namespace)
}

// FindFile searches for namespace using the default resolver.
func FindFile(namespace string) <-chan Resolution {
	return defaultResolver.FindFile(namespace)
}

// FindFileSync searches for namespace using the default resolver.
func FindFileSync(namespace string) (string, bool) {
	return defaultResolver.FindFileSync(namespace)
}
