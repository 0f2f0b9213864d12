// Package main hosts the mediascan CLI entrypoint and command graph.
//
// The Cobra-based command tree covers one-shot and scheduled library scans,
// filename inspection, catalog listing and maintenance, readiness checks and
// configuration scaffolding. It centralizes configuration resolution and
// logger setup so subcommands stay declarative; the work itself lives in the
// internal packages.
package main
