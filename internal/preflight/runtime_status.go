package preflight

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
)

// CheckCatalogFromConfig evaluates catalog status from config and connectivity.
func CheckCatalogFromConfig(cfg *config.Config) Result {
	const name = "Price catalog"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.Catalog.APIKey) == "" {
		return Result{Name: name, Detail: "Missing API key"}
	}
	check := CheckCatalog(context.Background(), cfg)
	if check.Passed {
		return Result{Name: name, Passed: true, Detail: check.Detail}
	}
	return Result{Name: name, Detail: check.Detail}
}

// CheckNotificationsFromConfig evaluates ntfy status from config.
func CheckNotificationsFromConfig(cfg *config.Config) Result {
	const name = "Notifications"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	parsed, err := url.Parse(topic)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Result{Name: name, Detail: fmt.Sprintf("Invalid ntfy topic URL %q", topic)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("ntfy via %s", parsed.Host)}
}

// DatabaseProbe reports the current collection database snapshot.
type DatabaseProbe struct {
	Exists    bool
	Path      string
	SizeBytes int64
	Games     int
}

// ProbeDatabase inspects the database file for status displays. Failures
// degrade to an empty probe rather than erroring.
func ProbeDatabase(path string) DatabaseProbe {
	path = strings.TrimSpace(path)
	if path == "" {
		return DatabaseProbe{}
	}
	info, err := os.Stat(path)
	if err != nil {
		return DatabaseProbe{Path: path}
	}
	probe := DatabaseProbe{Exists: true, Path: path, SizeBytes: info.Size()}

	store, err := library.OpenPath(path)
	if err != nil {
		return probe
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if health, err := store.CheckHealth(ctx); err == nil {
		probe.Games = health.TotalGames
	}
	return probe
}

// DatabaseDetail renders a display-friendly summary for status UIs.
func (p DatabaseProbe) DatabaseDetail() string {
	if !p.Exists {
		return "No database yet"
	}
	return fmt.Sprintf("%d games, %s on disk", p.Games, formatBytes(p.SizeBytes))
}

func formatBytes(value int64) string {
	const (
		kiB = 1024
		miB = kiB * 1024
		giB = miB * 1024
	)
	switch {
	case value >= giB:
		return fmt.Sprintf("%.2f GiB", float64(value)/float64(giB))
	case value >= miB:
		return fmt.Sprintf("%.2f MiB", float64(value)/float64(miB))
	case value >= kiB:
		return fmt.Sprintf("%.2f KiB", float64(value)/float64(kiB))
	default:
		return fmt.Sprintf("%d B", value)
	}
}
