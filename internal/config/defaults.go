package config

const (
	defaultConfigPath    = "~/.config/mediascan/config.toml"
	defaultStateDir      = "~/.local/share/mediascan"
	defaultCatalogDriver = "sqlite"
	defaultIngestWorkers = 4
	defaultEventBuffer   = 64
	defaultSchedule      = "@every 1h"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Catalog: Catalog{
			Driver: defaultCatalogDriver,
		},
		Scan: Scan{
			IngestWorkers: defaultIngestWorkers,
			EventBuffer:   defaultEventBuffer,
			Schedule:      defaultSchedule,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
