package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func usersTOML(ids ...int) []byte {
	list := ""
	for i, id := range ids {
		if i > 0 {
			list += ", "
		}
		list += fmt.Sprint(id)
	}
	return fmt.Appendf(nil, "[gateway]\nallowed_users = [%s]\n", list)
}

func startWatcher(t *testing.T, path string, debounce time.Duration, opts ...WatcherOption[Reloadable]) *Watcher[Reloadable] {
	t.Helper()
	opts = append([]WatcherOption[Reloadable]{WithDebounce[Reloadable](debounce)}, opts...)
	w := NewConfigWatcher(path, LoadReloadable, newTestLogger(), opts...)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})
	time.Sleep(100 * time.Millisecond)
	return w
}

func TestConfigWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, usersTOML(1), 0o644); err != nil {
		t.Fatal(err)
	}

	received := make(chan Reloadable, 1)
	w := startWatcher(t, path, 50*time.Millisecond)
	w.OnReload(func(r Reloadable) { received <- r })

	if err := os.WriteFile(path, usersTOML(1, 2), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-received:
		if want := []string{"1", "2"}; !reflect.DeepEqual(r.AllowedUsers, want) {
			t.Errorf("AllowedUsers = %v, want %v", r.AllowedUsers, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}
}

func TestConfigWatcher_RenameIntoPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, usersTOML(1), 0o644); err != nil {
		t.Fatal(err)
	}

	received := make(chan Reloadable, 1)
	w := startWatcher(t, path, 50*time.Millisecond)
	w.OnReload(func(r Reloadable) { received <- r })

	tmp := filepath.Join(dir, "config.toml.swp")
	if err := os.WriteFile(tmp, usersTOML(42), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-received:
		if want := []string{"42"}; !reflect.DeepEqual(r.AllowedUsers, want) {
			t.Errorf("AllowedUsers = %v, want %v", r.AllowedUsers, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload after rename")
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, usersTOML(1), 0o644); err != nil {
		t.Fatal(err)
	}

	var count atomic.Int32
	w := startWatcher(t, path, 20*time.Millisecond)
	w.OnReload(func(Reloadable) { count.Add(1) })

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), usersTOML(9), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("handler called %d times for an unrelated file", got)
	}
}

func TestConfigWatcher_Unsubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, usersTOML(1), 0o644); err != nil {
		t.Fatal(err)
	}

	var count1, count2 atomic.Int32
	w := startWatcher(t, path, 50*time.Millisecond)
	w.OnReload(func(Reloadable) { count1.Add(1) })
	unsub := w.OnReload(func(Reloadable) { count2.Add(1) })

	if err := os.WriteFile(path, usersTOML(2), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(250 * time.Millisecond)
	unsub()

	if err := os.WriteFile(path, usersTOML(3), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(250 * time.Millisecond)

	if got := count1.Load(); got != 2 {
		t.Errorf("handler1 calls = %d, want 2", got)
	}
	if got := count2.Load(); got != 1 {
		t.Errorf("handler2 calls = %d, want 1", got)
	}
}

func TestConfigWatcher_ErrorHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, usersTOML(1), 0o644); err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 1)
	configs := make(chan Reloadable, 1)
	w := startWatcher(t, path, 50*time.Millisecond, WithErrorHandler[Reloadable](func(err error) { errs <- err }))
	w.OnReload(func(r Reloadable) { configs <- r })

	if err := os.WriteFile(path, []byte("invalid toml [[["), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-errs:
	case <-configs:
		t.Fatal("handler called with invalid config")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestConfigWatcher_Debounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, usersTOML(0), 0o644); err != nil {
		t.Fatal(err)
	}

	var count atomic.Int32
	var last atomic.Value
	w := startWatcher(t, path, 200*time.Millisecond)
	w.OnReload(func(r Reloadable) {
		count.Add(1)
		last.Store(r.AllowedUsers)
	})

	for i := 1; i <= 5; i++ {
		if err := os.WriteFile(path, usersTOML(i), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("handler calls = %d, want 1 debounced call", got)
	}
	if got, _ := last.Load().([]string); !reflect.DeepEqual(got, []string{"5"}) {
		t.Errorf("last AllowedUsers = %v, want [5]", got)
	}
}

func TestConfigWatcher_StopWithoutStart(t *testing.T) {
	w := NewConfigWatcher("config.toml", LoadReloadable, newTestLogger())
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
