// Package config loads, normalizes, and validates mediascan configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIASCAN_FOLDERS and MEDIASCAN_CATALOG_DSN. The Config type centralizes the
// library roots, catalog connection, scan tuning and logging knobs so the CLI
// and the scan runner discover them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
