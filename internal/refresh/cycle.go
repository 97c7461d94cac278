package refresh

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/resolve"
	"gameshelf/internal/services"
)

// EntryStatus tracks a catalog entry through a refresh cycle.
type EntryStatus string

const (
	EntryDue         EntryStatus = "due"
	EntryFetching    EntryStatus = "fetching"
	EntryRecorded    EntryStatus = "recorded"
	EntryEmpty       EntryStatus = "empty"
	EntryFetchFailed EntryStatus = "fetch_failed"
)

// Outcome captures the terminal state of a single entry within a cycle.
type Outcome struct {
	Entry      *library.CatalogEntry
	Status     EntryStatus
	Conditions int
	Err        error
}

// ProgressFunc receives per-entry progress while a cycle runs.
type ProgressFunc func(done, total int, entry *library.CatalogEntry)

// CycleOptions control one reconciliation cycle. Zero values fall back to
// the manager's configured defaults.
type CycleOptions struct {
	Now          time.Time
	Cooldown     time.Duration
	Limit        int
	ResolveFirst bool
	Progress     ProgressFunc
}

// CycleReport summarizes one reconciliation cycle.
type CycleReport struct {
	CycleID   string
	Started   time.Time
	Duration  time.Duration
	Attempted int
	Recorded  int
	Empty     int
	Failed    int
	Outcomes  []Outcome
	Resolve   *resolve.Report
}

// RunCycle executes one refresh pass: an optional resolve batch over
// unresolved games, then the due-set fetch/record loop. The pass always
// returns a report; per-entry failures land in Outcomes rather than
// aborting the cycle. Cancellation is honored between entries, never
// mid-write.
func (m *Manager) RunCycle(ctx context.Context, opts CycleOptions) (CycleReport, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	cooldown := opts.Cooldown
	if cooldown <= 0 {
		cooldown = m.cooldown
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = m.limit
	}

	report := CycleReport{CycleID: uuid.NewString(), Started: now}
	start := time.Now()
	cycleCtx := services.WithCycleID(ctx, report.CycleID)
	logger := logging.WithContext(cycleCtx, m.logger)

	logger.Info("refresh cycle started",
		logging.String(logging.FieldEventType, "cycle_start"),
		logging.Duration("cooldown", cooldown),
		logging.Int("limit", limit),
	)

	if opts.ResolveFirst {
		m.resolveUnresolved(cycleCtx, logger, &report)
	}

	due, err := m.prices.DueForRefresh(cycleCtx, now, cooldown, limit)
	if err != nil {
		report.Duration = time.Since(start)
		logger.Error("due-set query failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "due_query_failed"),
			logging.String(logging.FieldErrorHint, "check collection database access"),
		)
		return report, err
	}

	total := len(due)
	for index, entry := range due {
		if cycleCtx.Err() != nil {
			logger.Info("refresh cycle interrupted",
				logging.String(logging.FieldEventType, "cycle_interrupted"),
				logging.Int("remaining", total-index),
			)
			break
		}
		if opts.Progress != nil {
			opts.Progress(index+1, total, entry)
		}
		outcome := m.refreshEntry(cycleCtx, entry, now)
		report.Attempted++
		switch outcome.Status {
		case EntryRecorded:
			report.Recorded++
		case EntryEmpty:
			report.Empty++
		case EntryFetchFailed:
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	report.Duration = time.Since(start)
	logger.Info("refresh cycle finished",
		logging.String(logging.FieldEventType, "cycle_complete"),
		logging.Int("attempted", report.Attempted),
		logging.Int("recorded", report.Recorded),
		logging.Int("empty", report.Empty),
		logging.Int("failed", report.Failed),
		logging.Duration("cycle_duration", report.Duration),
	)
	return report, nil
}

func (m *Manager) resolveUnresolved(ctx context.Context, logger *slog.Logger, report *CycleReport) {
	games, err := m.store.UnresolvedGames(ctx)
	if err != nil {
		logger.Warn("unresolved games unavailable; skipping resolve pass",
			logging.Error(err),
			logging.String(logging.FieldEventType, "resolve_pass_skipped"),
		)
		return
	}
	if len(games) == 0 {
		return
	}
	batch := m.resolver.ResolveBatch(ctx, games, nil)
	report.Resolve = &batch
	logger.Info("resolve pass finished",
		logging.String(logging.FieldEventType, "resolve_pass_complete"),
		logging.Int("attempted", batch.Attempted),
		logging.Int("linked", batch.Linked),
		logging.Int("failed", batch.Failed),
	)
}

// refreshEntry moves one due entry through fetch and record. An outright
// fetch failure records nothing so the entry stays due for the next cycle.
func (m *Manager) refreshEntry(ctx context.Context, entry *library.CatalogEntry, observedAt time.Time) Outcome {
	outcome := Outcome{Entry: entry, Status: EntryFetching}
	entryCtx := services.WithCatalogID(ctx, entry.CatalogID)
	logger := logging.WithContext(entryCtx, m.logger)

	prices, err := m.client.FetchPrices(entryCtx, entry.CatalogID)
	if err != nil {
		outcome.Status = EntryFetchFailed
		outcome.Err = services.Wrap(services.ErrTransport, "refresh", "fetch", "catalog price fetch failed", err)
		logger.Warn("price fetch failed; entry stays due",
			logging.Error(err),
			logging.String(logging.FieldEventType, "fetch_failed"),
			logging.String("title", entry.Title),
		)
		return outcome
	}

	count, err := m.prices.RecordSnapshot(entryCtx, entry.CatalogID, prices, observedAt)
	if err != nil {
		outcome.Status = EntryFetchFailed
		outcome.Err = err
		logger.Error("price snapshot not recorded",
			logging.Error(err),
			logging.String(logging.FieldEventType, "record_failed"),
			logging.String(logging.FieldErrorHint, "check collection database access"),
		)
		return outcome
	}

	if count == 0 {
		outcome.Status = EntryEmpty
		logger.Debug("no catalog prices; empty marker recorded")
		return outcome
	}
	outcome.Status = EntryRecorded
	outcome.Conditions = count
	logger.Debug("prices recorded", logging.Int("conditions", count))
	return outcome
}
