package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	prefsink "github.com/goliatone/go-prefsink"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, ".buster.js")
	writeFile(t, path, "module.exports = { id: 1 };")

	prefs := prefsink.New(prefsink.WithResolver(prefsink.NewResolver(prefsink.ResolverWithHome(home))))
	watcher := New(prefs, "buster", WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jars := make(chan *prefsink.Jar, 8)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, func(jar *prefsink.Jar, err error) {
			if err != nil {
				t.Errorf("unexpected load error: %v", err)
				return
			}
			jars <- jar
		})
	}()

	first := receive(t, jars)
	if got := first.Get("id"); got != int64(1) {
		t.Fatalf("expected initial id 1, got %#v", got)
	}

	writeFile(t, path, "module.exports = { id: 2 };")
	deadline := time.After(5 * time.Second)
	for {
		select {
		case jar := <-jars:
			if jar.Get("id") == int64(2) {
				cancel()
				if err := <-done; err != nil {
					t.Fatalf("run: %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for reload")
		}
	}
}

func TestWatcherPicksUpCreatedFile(t *testing.T) {
	home := t.TempDir()
	prefs := prefsink.New(prefsink.WithResolver(prefsink.NewResolver(prefsink.ResolverWithHome(home))))
	watcher := New(prefs, "buster", WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jars := make(chan *prefsink.Jar, 8)
	go func() {
		_ = watcher.Run(ctx, func(jar *prefsink.Jar, err error) {
			if err == nil {
				jars <- jar
			}
		})
	}()

	first := receive(t, jars)
	if _, ok := first.Source(); ok {
		t.Fatalf("expected no source before the file exists")
	}

	writeFile(t, filepath.Join(home, ".buster"), "module.exports = { id: 3 };")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case jar := <-jars:
			if source, ok := jar.Source(); ok && source == filepath.Join(home, ".buster") {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for created file")
		}
	}
}

func TestWatcherNotifiesSeriallyAndStopsOnCancel(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, ".buster.js")
	writeFile(t, path, "module.exports = { id: 0 };")

	prefs := prefsink.New(prefsink.WithResolver(prefsink.NewResolver(prefsink.ResolverWithHome(home))))
	watcher := New(prefs, "buster", WithDebounce(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls, inFlight, overlaps atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, func(*prefsink.Jar, error) {
			if inFlight.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			calls.Add(1)
		})
	}()

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for the initial load")
		}
		time.Sleep(5 * time.Millisecond)
	}
	for range 5 {
		writeFile(t, path, "module.exports = { id: 1 };")
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	after := calls.Load()
	if inFlight.Load() != 0 {
		t.Fatalf("notify still running after Run returned")
	}
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != after {
		t.Fatalf("notify called %d times after Run returned", got-after)
	}
	if overlaps.Load() != 0 {
		t.Fatalf("notify ran concurrently %d times", overlaps.Load())
	}
}

func TestRunRequiresNotify(t *testing.T) {
	watcher := New(prefsink.New(), "buster")
	if err := watcher.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error without notify func")
	}
}

func receive(t *testing.T, jars <-chan *prefsink.Jar) *prefsink.Jar {
	t.Helper()
	select {
	case jar := <-jars:
		return jar
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for jar")
		return nil
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
