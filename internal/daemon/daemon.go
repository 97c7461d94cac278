package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"gameshelf/internal/catalog"
	"gameshelf/internal/config"
	"gameshelf/internal/importer"
	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/refresh"
	"gameshelf/internal/webapi"
)

// Daemon coordinates the background services and enforces single-instance
// execution through a file lock in the data directory.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *library.Store
	refresh *refresh.Manager
	web     *webapi.Server
	watcher *importer.Watcher

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status reports daemon runtime information.
type Status struct {
	Running      bool
	Refresh      refresh.StatusSummary
	DBPath       string
	LockFilePath string
	APIAddr      string
}

// New constructs a daemon with initialized dependencies. The web server is
// optional; it is omitted when no bind address is configured.
func New(cfg *config.Config, store *library.Store, client catalog.Client, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || client == nil {
		return nil, errors.New("daemon requires config, store, and catalog client")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	manager := refresh.NewManager(cfg, store, client, logger)
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		refresh:  manager,
		web:      webapi.New(cfg, store, manager, logger),
		watcher:  importer.NewWatcher(cfg.ImportDir(), importer.New(store, logger), logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the refresh loop, web API,
// and import watcher.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another gameshelf daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.refresh.Start(runCtx); err != nil {
		d.abortStart()
		return fmt.Errorf("start refresh loop: %w", err)
	}
	if err := d.web.Start(runCtx); err != nil {
		d.refresh.Stop()
		d.abortStart()
		return fmt.Errorf("start web api: %w", err)
	}
	if err := d.watcher.Start(runCtx); err != nil {
		d.web.Stop()
		d.refresh.Stop()
		d.abortStart()
		return fmt.Errorf("start import watcher: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("gameshelf daemon started",
		logging.String("lock", d.lockPath),
		logging.String("api", d.web.Addr()))
	return nil
}

func (d *Daemon) abortStart() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	_ = d.lock.Unlock()
}

// Stop halts background services and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.watcher.Stop()
	d.web.Stop()
	d.refresh.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("gameshelf daemon stopped")
}

// Close releases resources held by the daemon, including the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// RunCycle triggers one immediate reconciliation cycle outside the periodic
// schedule.
func (d *Daemon) RunCycle(ctx context.Context, opts refresh.CycleOptions) (refresh.CycleReport, error) {
	return d.refresh.RunCycle(ctx, opts)
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Refresh:      d.refresh.Status(),
		DBPath:       d.store.Path(),
		LockFilePath: d.lockPath,
		APIAddr:      d.web.Addr(),
	}
}
