package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeScan()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.StateDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// normalizeLibrary expands every folder and drops blanks and duplicates while
// keeping the configured order.
func (c *Config) normalizeLibrary() error {
	if len(c.Library.Folders) == 0 {
		if value, ok := os.LookupEnv("MEDIASCAN_FOLDERS"); ok {
			c.Library.Folders = filepath.SplitList(value)
		}
	}
	folders := make([]string, 0, len(c.Library.Folders))
	seen := make(map[string]struct{}, len(c.Library.Folders))
	for i, folder := range c.Library.Folders {
		folder = strings.TrimSpace(folder)
		if folder == "" {
			continue
		}
		expanded, err := expandPath(folder)
		if err != nil {
			return fmt.Errorf("library.folders[%d]: %w", i, err)
		}
		if _, exists := seen[expanded]; exists {
			continue
		}
		seen[expanded] = struct{}{}
		folders = append(folders, expanded)
	}
	c.Library.Folders = folders
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.Driver = strings.ToLower(strings.TrimSpace(c.Catalog.Driver))
	if c.Catalog.Driver == "" {
		c.Catalog.Driver = defaultCatalogDriver
	}
	c.Catalog.DSN = strings.TrimSpace(c.Catalog.DSN)
	if c.Catalog.DSN == "" {
		// A URL is never a SQLite file path.
		value := strings.TrimSpace(os.Getenv("MEDIASCAN_CATALOG_DSN"))
		if c.Catalog.Driver != "sqlite" || !isURLDSN(value) {
			c.Catalog.DSN = value
		}
	}
}

func (c *Config) normalizeScan() {
	if c.Scan.IngestWorkers <= 0 {
		c.Scan.IngestWorkers = defaultIngestWorkers
	}
	if c.Scan.EventBuffer < 0 {
		c.Scan.EventBuffer = 0
	}
	c.Scan.Schedule = strings.TrimSpace(c.Scan.Schedule)
	if c.Scan.Schedule == "" {
		c.Scan.Schedule = defaultSchedule
	}
}

func isURLDSN(dsn string) bool {
	return strings.Contains(dsn, "://")
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
