package config

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Driver {
	case "sqlite":
		if isURLDSN(c.Catalog.DSN) {
			return fmt.Errorf("catalog.dsn: %q is a URL, but catalog.driver is sqlite (set a file path or driver = \"postgres\")", c.Catalog.DSN)
		}
		return nil
	case "postgres":
		if c.Catalog.DSN == "" {
			return errors.New("catalog.dsn must be set when catalog.driver is postgres (or export MEDIASCAN_CATALOG_DSN)")
		}
		return nil
	default:
		return fmt.Errorf("catalog.driver: unsupported value %q (expected sqlite or postgres)", c.Catalog.Driver)
	}
}

func (c *Config) validateScan() error {
	if c.Scan.IngestWorkers < 1 {
		return errors.New("scan.ingest_workers must be at least 1")
	}
	if c.Scan.Schedule == "" {
		return errors.New("scan.schedule must not be empty")
	}
	if _, err := cron.ParseStandard(c.Scan.Schedule); err != nil {
		return fmt.Errorf("scan.schedule: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
