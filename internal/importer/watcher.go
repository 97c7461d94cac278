package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"gameshelf/internal/logging"
)

const (
	doneSuffix   = ".done"
	failedSuffix = ".failed"

	// settleDelay gives the writer time to finish before the file is read.
	// Drop directories see whole-file renames and slow copies alike.
	defaultSettleDelay = 500 * time.Millisecond
)

// Watcher monitors a drop directory for JSON import files. Processed files
// are renamed with a .done or .failed suffix so reruns never double-import.
type Watcher struct {
	dir      string
	importer *Importer
	logger   *slog.Logger
	settle   time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher over dir.
func NewWatcher(dir string, imp *Importer, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		dir:      dir,
		importer: imp,
		logger:   logging.NewComponentLogger(logger, "import-watcher"),
		settle:   defaultSettleDelay,
	}
}

// Start sweeps files already present, then watches for new ones until ctx
// is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("import watcher already running")
	}
	if strings.TrimSpace(w.dir) == "" {
		w.mu.Unlock()
		return errors.New("import directory not configured")
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := notifier.Add(w.dir); err != nil {
		_ = notifier.Close()
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	w.mu.Unlock()

	go w.run(runCtx, notifier)

	if _, err := w.Sweep(runCtx); err != nil {
		w.logger.Warn("initial import sweep failed", logging.Error(err))
	}
	w.logger.Info("import watcher started", logging.String("directory", w.dir))
	return nil
}

// Stop terminates watching and waits for in-flight processing.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context, notifier *fsnotify.Watcher) {
	defer w.wg.Done()
	defer notifier.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-notifier.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !importable(event.Name) {
				continue
			}
			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				return
			}
			w.ProcessFile(ctx, event.Name)
		case err, ok := <-notifier.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", logging.Error(err))
		}
	}
}

// Sweep processes every importable file already in the directory and
// returns how many were handled.
func (w *Watcher) Sweep(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("read import directory: %w", err)
	}

	processed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if entry.IsDir() || !importable(entry.Name()) {
			continue
		}
		w.ProcessFile(ctx, filepath.Join(w.dir, entry.Name()))
		processed++
	}
	return processed, nil
}

// ProcessFile imports one file and renames it by outcome. A file that
// vanished between the event and the read is ignored; a repeat event for an
// already renamed file falls into the same path.
func (w *Watcher) ProcessFile(ctx context.Context, path string) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("import file unreadable", logging.String("file", path), logging.Error(err))
		}
		return
	}

	kind, report, err := w.importer.ImportPayload(ctx, payload)
	if err != nil {
		w.logger.Error("import failed",
			logging.String("file", path),
			logging.Error(err))
		w.finish(path, failedSuffix)
		return
	}

	w.logger.Info("import file processed",
		logging.String("file", path),
		logging.String("kind", string(kind)),
		logging.Int("total", report.Total),
		logging.Int("applied", report.Applied),
		logging.Int("skipped", report.Skipped),
		logging.Int("failed", report.Failed))
	if report.Failed > 0 {
		w.finish(path, failedSuffix)
		return
	}
	w.finish(path, doneSuffix)
}

func (w *Watcher) finish(path, suffix string) {
	target := path + suffix
	if err := os.Rename(path, target); err != nil {
		w.logger.Warn("rename processed import file failed",
			logging.String("file", path),
			logging.Error(err))
	}
}

func importable(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	return strings.HasSuffix(base, ".json")
}
