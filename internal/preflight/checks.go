package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"gameshelf/internal/catalog/pricechart"
	"gameshelf/internal/config"
	"gameshelf/internal/library"
)

// probeQuery is a deliberately common search term used to verify that the
// catalog API accepts the configured token.
const probeQuery = "mario"

// CheckCatalog verifies that the price catalog API is reachable and the key
// is valid. It uses a 5-second timeout and a single attempt (no retries).
func CheckCatalog(ctx context.Context, cfg *config.Config) Result {
	const name = "Price catalog"

	if strings.TrimSpace(cfg.Catalog.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	client, err := pricechart.New(cfg.Catalog.APIKey, cfg.Catalog.BaseURL, cfg.Catalog.UserAgent,
		pricechart.WithTimeout(5*time.Second))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Search(checkCtx, probeQuery, ""); err != nil {
		return Result{Name: name, Detail: summarizeCatalogError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckDatabase verifies that the collection database is usable. A missing
// file passes because the store creates it on first open.
func CheckDatabase(ctx context.Context, path string) Result {
	const name = "Database"

	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "missing database path"}
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created on first use)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}

	store, err := library.OpenPath(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := store.CheckHealth(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if len(health.MissingTables) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: missing tables: %s)", path, strings.Join(health.MissingTables, ", "))}
	}
	if !health.IntegrityCheck {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: integrity check failed)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (schema %s, %d games)", path, health.SchemaVersion, health.TotalGames)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeCatalogError produces a human-readable summary for catalog health
// check failures.
func summarizeCatalogError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (catalog API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (catalog API unreachable)"
	}
	return err.Error()
}
