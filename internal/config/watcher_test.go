package config_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/questward/lorekeeper/internal/config"
)

const watcherValidYAML = `
server:
  log_level: info
  auth:
    username: keeper
    password: hollowbrook
storage:
  postgres_dsn: "postgres://localhost/lorekeeper"
`

const watcherUpdatedYAML = `
server:
  log_level: debug
  auth:
    username: keeper
    password: hollowbrook
storage:
  postgres_dsn: "postgres://localhost/lorekeeper"
`

const watcherInvalidYAML = `
server:
  log_level: bananas
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %q: %v", path, err)
	}
}

func TestWatcher_InitialLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, watcherValidYAML)

	w, err := config.NewWatcher(cfgPath, nil, config.WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	cfg := w.Current()
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("log_level = %q, want info", cfg.Server.LogLevel)
	}
}

func TestWatcher_InitialLoadInvalid(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, watcherInvalidYAML)

	if _, err := config.NewWatcher(cfgPath, nil); err == nil {
		t.Fatal("expected error for invalid initial config, got nil")
	}
}

func TestWatcher_DetectsChange(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, watcherValidYAML)

	var (
		mu      sync.Mutex
		changed bool
		gotNew  *config.Config
	)
	onChange := func(_, new *config.Config) {
		mu.Lock()
		defer mu.Unlock()
		changed = true
		gotNew = new
	}

	w, err := config.NewWatcher(cfgPath, onChange, config.WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	// Backdate the mtime so the rewrite below is guaranteed to change it.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(cfgPath, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	writeFile(t, cfgPath, watcherUpdatedYAML)

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		done := changed
		mu.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("watcher did not detect config change")
		case <-time.After(10 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if gotNew.Server.LogLevel != config.LogDebug {
		t.Errorf("new log_level = %q, want debug", gotNew.Server.LogLevel)
	}
	if w.Current().Server.LogLevel != config.LogDebug {
		t.Errorf("Current() log_level = %q, want debug", w.Current().Server.LogLevel)
	}
}

func TestWatcher_KeepsOldConfigOnInvalidReload(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, watcherValidYAML)

	w, err := config.NewWatcher(cfgPath, nil, config.WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(cfgPath, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	writeFile(t, cfgPath, watcherInvalidYAML)

	// Give the watcher a few polling cycles to (not) pick up the bad file.
	time.Sleep(100 * time.Millisecond)

	if got := w.Current().Server.LogLevel; got != config.LogInfo {
		t.Errorf("Current() log_level = %q, want info (old config kept)", got)
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	base := func() *config.Config {
		return &config.Config{
			Server: config.ServerConfig{
				ListenAddr: ":8080",
				LogLevel:   config.LogInfo,
				Auth:       config.AuthConfig{Username: "keeper", Password: "hollowbrook"},
			},
			Extractor: config.ExtractorConfig{
				Strategy:            config.StrategyPattern,
				SimilarityThreshold: 0.85,
			},
		}
	}

	t.Run("no changes", func(t *testing.T) {
		d := config.Diff(base(), base())
		if d.LogLevelChanged || d.AuthChanged || d.RestartRequired {
			t.Errorf("Diff of identical configs = %+v, want zero value", d)
		}
	})

	t.Run("log level", func(t *testing.T) {
		new := base()
		new.Server.LogLevel = config.LogDebug
		d := config.Diff(base(), new)
		if !d.LogLevelChanged || d.NewLogLevel != config.LogDebug {
			t.Errorf("Diff = %+v, want LogLevelChanged with debug", d)
		}
		if d.RestartRequired {
			t.Error("log level change should not require restart")
		}
	})

	t.Run("auth", func(t *testing.T) {
		new := base()
		new.Server.Auth.Password = "rotated"
		d := config.Diff(base(), new)
		if !d.AuthChanged {
			t.Errorf("Diff = %+v, want AuthChanged", d)
		}
	})

	t.Run("threshold requires restart", func(t *testing.T) {
		new := base()
		new.Extractor.SimilarityThreshold = 0.95
		d := config.Diff(base(), new)
		if !d.RestartRequired {
			t.Errorf("Diff = %+v, want RestartRequired", d)
		}
	})

	t.Run("strategy requires restart", func(t *testing.T) {
		new := base()
		new.Extractor.Strategy = config.StrategyModel
		d := config.Diff(base(), new)
		if !d.RestartRequired {
			t.Errorf("Diff = %+v, want RestartRequired", d)
		}
	})

	t.Run("listen addr requires restart", func(t *testing.T) {
		new := base()
		new.Server.ListenAddr = ":9090"
		d := config.Diff(base(), new)
		if !d.RestartRequired {
			t.Errorf("Diff = %+v, want RestartRequired", d)
		}
	})
}
