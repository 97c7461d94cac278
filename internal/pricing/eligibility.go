package pricing

import (
	"context"
	"time"

	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/services"
)

// DueForRefresh returns the linked catalog entries eligible for a new fetch
// at the given instant: never observed, or last observed at least one full
// cooldown ago. Empty readings count as observations. The set is ordered by
// title then id; a limit <= 0 returns everything eligible.
func (s *Service) DueForRefresh(ctx context.Context, now time.Time, cooldown time.Duration, limit int) ([]*library.CatalogEntry, error) {
	if cooldown <= 0 {
		return nil, services.Wrap(services.ErrValidation, "pricing", "due", "cooldown must be positive", nil)
	}

	cutoff := now.Add(-cooldown)
	entries, err := s.store.DueEntries(ctx, cutoff, limit)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "pricing", "due", "query due entries", err)
	}
	s.logger.Debug("computed due set",
		logging.Int("due", len(entries)),
		logging.Duration("cooldown", cooldown))
	return entries, nil
}
