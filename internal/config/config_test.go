package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadMissingFileUsesDefaults: a first run has no config file yet;
// Load must hand back defaults, not an error.
func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PERCH_FEED", "")

	path := filepath.Join(t.TempDir(), "nowhere", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed on missing file: %v", err)
	}

	def := Default()
	if cfg.Feed.PageSize != def.Feed.PageSize {
		t.Errorf("PageSize = %d, want default %d", cfg.Feed.PageSize, def.Feed.PageSize)
	}
	if cfg.Feed.Timeout != def.Feed.Timeout {
		t.Errorf("Timeout = %v, want default %v", cfg.Feed.Timeout, def.Feed.Timeout)
	}
	if cfg.Storage.DBPath != def.Storage.DBPath {
		t.Errorf("DBPath = %q, want default %q", cfg.Storage.DBPath, def.Storage.DBPath)
	}
}

func TestLoadMissingFileResolvesEnv(t *testing.T) {
	t.Setenv("PERCH_FEED", "/data/feed.json")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Feed.DumpPath != "/data/feed.json" {
		t.Errorf("DumpPath = %q, want env value", cfg.Feed.DumpPath)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Setenv("PERCH_FEED", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("feed:\n  pageSize: 5\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Feed.PageSize != 5 {
		t.Errorf("PageSize = %d, want 5", cfg.Feed.PageSize)
	}
	if cfg.Feed.Timeout != Default().Feed.Timeout {
		t.Errorf("Timeout = %v, want untouched default", cfg.Feed.Timeout)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("PERCH_FEED", "")

	path := filepath.Join(t.TempDir(), "perch", "config.yaml")
	want := Default()
	want.Feed.DumpPath = "/tmp/feed.json"
	want.Feed.PageSize = 10
	want.Feed.Timeout = 3 * time.Second

	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Feed.DumpPath != want.Feed.DumpPath ||
		got.Feed.PageSize != want.Feed.PageSize ||
		got.Feed.Timeout != want.Feed.Timeout {
		t.Errorf("round trip = %+v, want %+v", got.Feed, want.Feed)
	}
}
