package testsupport

import (
	"path/filepath"
	"testing"

	"mediascan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The catalog uses SQLite inside the temp state directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Catalog.Driver = "sqlite"
	cfgVal.Catalog.DSN = ""
	cfgVal.Library.Folders = nil

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithFolders sets the library folders on the test config.
func WithFolders(folders ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Library.Folders = append([]string(nil), folders...)
	}
}

// WithIngestWorkers overrides the ingestion pool size.
func WithIngestWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.IngestWorkers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
