package preflight

import (
	"context"
	"fmt"

	"mediascan/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config: the state
// directory, each configured library folder and the catalog.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	if len(cfg.Library.Folders) == 0 {
		results = append(results, Result{Name: "Library folders", Detail: "none configured"})
	}
	for i, folder := range cfg.Library.Folders {
		results = append(results, CheckFolder(fmt.Sprintf("Library folder %d", i+1), folder))
	}

	results = append(results, CheckCatalog(ctx, cfg))
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
