package preflight

import (
	"context"

	"gameshelf/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Directory checks only run for paths that are configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Data directory (always checked)
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Paths.ImportDir != "" {
		results = append(results, CheckDirectoryAccess("Import directory", cfg.Paths.ImportDir))
	}

	results = append(results, CheckDatabase(ctx, cfg.DatabasePath()))
	results = append(results, CheckCatalog(ctx, cfg))

	return results
}

// Failed reports whether any result in the set did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return true
		}
	}
	return false
}
