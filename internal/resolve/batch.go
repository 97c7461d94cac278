package resolve

import (
	"context"
	"errors"

	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/services"
)

// Outcome is the per-game result of a batch resolution. Err is nil when the
// game linked, wraps services.ErrAlreadyResolved for no-ops, and carries the
// failure otherwise.
type Outcome struct {
	Game  library.Game
	Entry *library.CatalogEntry
	Err   error
}

// Report accumulates batch results in input order.
type Report struct {
	Attempted     int
	Linked        int
	AlreadyLinked int
	Failed        int
	Outcomes      []Outcome
}

// ProgressFunc is invoked before each batch item with its position.
type ProgressFunc func(index, total int, game library.Game)

// ResolveBatch resolves games in order, continuing past individual
// failures. One game's outcome never affects another's. Cancellation is
// honored between items; already processed outcomes are kept in the report.
func (r *Resolver) ResolveBatch(ctx context.Context, games []*library.Game, progress ProgressFunc) Report {
	report := Report{}
	total := len(games)
	for index, game := range games {
		if ctx.Err() != nil {
			r.logger.Info("batch resolution cancelled",
				logging.Int("processed", report.Attempted),
				logging.Int("total", total))
			break
		}
		if game == nil {
			continue
		}
		if progress != nil {
			progress(index, total, *game)
		}

		report.Attempted++
		resolution, err := r.Resolve(ctx, game)
		outcome := Outcome{Game: *game, Err: err}
		switch {
		case err == nil:
			entry := resolution.Entry
			outcome.Entry = &entry
			report.Linked++
		case errors.Is(err, services.ErrAlreadyResolved):
			report.AlreadyLinked++
		default:
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report
}
