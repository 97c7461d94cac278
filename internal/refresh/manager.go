package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gameshelf/internal/catalog"
	"gameshelf/internal/config"
	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/notifications"
	"gameshelf/internal/pricing"
	"gameshelf/internal/resolve"
)

// Manager coordinates reconciliation cycles: resolving unlinked games and
// refreshing catalog prices for due entries.
type Manager struct {
	store    *library.Store
	client   catalog.Client
	prices   *pricing.Service
	resolver *resolve.Resolver
	notifier notifications.Service
	logger   *slog.Logger

	interval     time.Duration
	cooldown     time.Duration
	limit        int
	resolveFirst bool

	mu         sync.RWMutex
	running    bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	lastErr    error
	lastReport *CycleReport
}

// NewManager constructs a refresh manager using the configured notifier.
func NewManager(cfg *config.Config, store *library.Store, client catalog.Client, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, store, client, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a refresh manager with a custom notifier (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *library.Store, client catalog.Client, logger *slog.Logger, notifier notifications.Service) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		store:        store,
		client:       client,
		prices:       pricing.NewService(store, logger),
		resolver:     resolve.New(store, client, logger),
		notifier:     notifier,
		logger:       logging.NewComponentLogger(logger, "refresh"),
		interval:     cfg.RefreshInterval(),
		cooldown:     cfg.Cooldown(),
		limit:        cfg.Refresh.MaxPerCycle,
		resolveFirst: cfg.Refresh.ResolveFirst,
	}
}

// StatusSummary represents lightweight refresh diagnostics.
type StatusSummary struct {
	Running    bool
	LastError  string
	LastReport *CycleReport
}

// Status returns the latest refresh information.
func (m *Manager) Status() StatusSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := StatusSummary{Running: m.running}
	if m.lastErr != nil {
		summary.LastError = m.lastErr.Error()
	}
	if m.lastReport != nil {
		report := *m.lastReport
		summary.LastReport = &report
	}
	return summary
}

func (m *Manager) setLastCycle(report *CycleReport, err error) {
	m.mu.Lock()
	if report != nil {
		copied := *report
		m.lastReport = &copied
	}
	m.lastErr = err
	m.mu.Unlock()
}
