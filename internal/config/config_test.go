package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediascan/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MEDIASCAN_FOLDERS", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "mediascan")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.LogDir != filepath.Join(wantState, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.CatalogPath() != filepath.Join(wantState, "catalog.db") {
		t.Fatalf("unexpected catalog path: %q", cfg.CatalogPath())
	}
	if cfg.Catalog.Driver != "sqlite" {
		t.Fatalf("expected sqlite driver by default, got %q", cfg.Catalog.Driver)
	}
	if cfg.Scan.IngestWorkers != config.Default().Scan.IngestWorkers {
		t.Fatalf("unexpected ingest workers: %d", cfg.Scan.IngestWorkers)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if len(cfg.Library.Folders) != 0 {
		t.Fatalf("expected no folders by default, got %v", cfg.Library.Folders)
	}
}

func TestLoadFromFileNormalizesFolders(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfgPath := filepath.Join(t.TempDir(), "mediascan.toml")
	data := `
[library]
folders = ["~/Videos", "  ", "~/Videos", "/srv/media/"]

[catalog]
driver = " SQLite "

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(cfgPath, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != cfgPath {
		t.Fatalf("expected config file to be used, got %q exists=%v", resolved, exists)
	}

	want := []string{filepath.Join(tempHome, "Videos"), "/srv/media"}
	if len(cfg.Library.Folders) != len(want) {
		t.Fatalf("unexpected folders: %v", cfg.Library.Folders)
	}
	for i := range want {
		if cfg.Library.Folders[i] != want[i] {
			t.Fatalf("folder %d: got %q want %q", i, cfg.Library.Folders[i], want[i])
		}
	}
	if cfg.Catalog.Driver != "sqlite" {
		t.Fatalf("expected driver to be normalized, got %q", cfg.Catalog.Driver)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging to be normalized, got %+v", cfg.Logging)
	}
}

func TestLoadUsesFolderAndDSNEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	first := t.TempDir()
	second := t.TempDir()
	t.Setenv("MEDIASCAN_FOLDERS", first+string(os.PathListSeparator)+second)
	t.Setenv("MEDIASCAN_CATALOG_DSN", "postgres://user@localhost/media")

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[catalog]\ndriver = \"postgres\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Library.Folders) != 2 || cfg.Library.Folders[0] != first || cfg.Library.Folders[1] != second {
		t.Fatalf("expected folders from env, got %v", cfg.Library.Folders)
	}
	if cfg.Catalog.DSN != "postgres://user@localhost/media" {
		t.Fatalf("expected DSN from env, got %q", cfg.Catalog.DSN)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"unknown driver", func(c *config.Config) { c.Catalog.Driver = "mongo" }, "catalog.driver"},
		{"postgres without dsn", func(c *config.Config) { c.Catalog.Driver = "postgres" }, "catalog.dsn"},
		{"zero workers", func(c *config.Config) { c.Scan.IngestWorkers = 0 }, "scan.ingest_workers"},
		{"bad schedule", func(c *config.Config) { c.Scan.Schedule = "every tuesday" }, "scan.schedule"},
		{"empty schedule", func(c *config.Config) { c.Scan.Schedule = "" }, "scan.schedule"},
		{"url as sqlite path", func(c *config.Config) { c.Catalog.DSN = "postgres://db/media" }, "catalog.dsn"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestWithFoldersReplacesLibrary(t *testing.T) {
	cfg := config.Default()
	cfg.Library.Folders = []string{"/original"}
	dir := t.TempDir()

	updated, err := cfg.WithFolders([]string{dir, dir, ""})
	if err != nil {
		t.Fatalf("WithFolders returned error: %v", err)
	}
	if len(updated.Library.Folders) != 1 || updated.Library.Folders[0] != dir {
		t.Fatalf("unexpected folders: %v", updated.Library.Folders)
	}
	if cfg.Library.Folders[0] != "/original" {
		t.Fatal("expected original config to be untouched")
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Catalog.Driver != "sqlite" {
		t.Fatalf("unexpected sample driver %q", decoded.Catalog.Driver)
	}

	if _, _, _, err := config.Load(target); err != nil {
		t.Fatalf("Load(sample) returned error: %v", err)
	}
}

func TestLoadLogDirFollowsStateDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	state := filepath.Join(t.TempDir(), "state")

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	data := "[paths]\nstate_dir = \"" + state + "\"\n\n[scan]\nschedule = \"\"\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.LogDir != filepath.Join(state, "logs") {
		t.Fatalf("expected log dir under state dir, got %q", cfg.Paths.LogDir)
	}
	if cfg.Scan.Schedule != config.Default().Scan.Schedule {
		t.Fatalf("expected empty schedule to fall back to the default, got %q", cfg.Scan.Schedule)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestLoadIgnoresURLDSNEnvForSQLite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDIASCAN_CATALOG_DSN", "postgres://user@localhost/media")

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[catalog]\ndriver = \"sqlite\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.DSN != "" {
		t.Fatalf("expected URL DSN to be ignored for sqlite, got %q", cfg.Catalog.DSN)
	}
	if cfg.CatalogPath() != filepath.Join(cfg.Paths.StateDir, "catalog.db") {
		t.Fatalf("unexpected catalog path %q", cfg.CatalogPath())
	}

	t.Setenv("MEDIASCAN_CATALOG_DSN", "/srv/catalog.db")
	cfg, _, _, err = config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.CatalogPath() != "/srv/catalog.db" {
		t.Fatalf("expected file path DSN to be used, got %q", cfg.CatalogPath())
	}
}
