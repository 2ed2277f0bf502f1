// Package watch reloads a namespace's preferences whenever one of its
// candidate files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	prefsink "github.com/goliatone/go-prefsink"
)

// DefaultDebounce collapses bursts of filesystem events (editors writing a
// temp file and renaming it) into one reload.
const DefaultDebounce = 100 * time.Millisecond

// NotifyFunc receives the jar produced by each reload, or the load error.
type NotifyFunc func(jar *prefsink.Jar, err error)

// Watcher reloads one namespace on change.
type Watcher struct {
	prefs     *prefsink.Preferences
	namespace string
	debounce  time.Duration
	logger    *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before reloading.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger attaches a logger for watcher diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New constructs a Watcher for namespace.
func New(prefs *prefsink.Preferences, namespace string, opts ...Option) *Watcher {
	w := &Watcher{
		prefs:     prefs,
		namespace: namespace,
		debounce:  DefaultDebounce,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run loads the namespace once, then again after every change to a candidate
// path, calling notify each time. Directories are watched rather than files
// so atomic saves and files created later are seen. Run blocks until ctx is
// cancelled and returns nil in that case.
func (w *Watcher) Run(ctx context.Context, notify NotifyFunc) error {
	if notify == nil {
		return errors.New("watch: notify func is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	candidates := map[string]struct{}{}
	dirs := map[string]struct{}{}
	for _, path := range w.prefs.Resolver().Paths(w.namespace) {
		candidates[path] = struct{}{}
		dirs[filepath.Dir(path)] = struct{}{}
	}
	watched := 0
	for dir := range dirs {
		if w.add(fsw, dir) {
			watched++
		}
	}
	if watched == 0 {
		return fmt.Errorf("watch: none of the candidate directories for %q exist", w.namespace)
	}

	notify(w.prefs.LoadSync(w.namespace))

	// Reloads run on this goroutine, so notify is never called concurrently
	// or after Run returns.
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if _, isDir := dirs[event.Name]; isDir && event.Has(fsnotify.Create) {
				w.add(fsw, event.Name)
			}
			if !w.relevant(event, candidates, dirs) {
				continue
			}
			w.logger.Debug("preference file changed",
				slog.String("namespace", w.namespace),
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-fire:
			if ctx.Err() != nil {
				return nil
			}
			notify(w.prefs.LoadSync(w.namespace))
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("namespace", w.namespace), slog.Any("error", err))
		}
	}
}

func (w *Watcher) add(fsw *fsnotify.Watcher, dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	if err := fsw.Add(dir); err != nil {
		w.logger.Debug("cannot watch directory", slog.String("dir", dir), slog.Any("error", err))
		return false
	}
	return true
}

func (w *Watcher) relevant(event fsnotify.Event, candidates, dirs map[string]struct{}) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if _, ok := candidates[event.Name]; ok {
		return true
	}
	_, ok := dirs[event.Name]
	return ok
}
