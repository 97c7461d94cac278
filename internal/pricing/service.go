package pricing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gameshelf/internal/catalog"
	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/services"
)

// Service records price observations and answers projection queries. The
// observation log is append-only; corrections happen by appending newer
// readings.
type Service struct {
	store  *library.Store
	logger *slog.Logger
}

// NewService creates the pricing service.
func NewService(store *library.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:  store,
		logger: logging.NewComponentLogger(logger, "pricing"),
	}
}

// Record appends one priced observation.
func (s *Service) Record(ctx context.Context, catalogID string, condition library.Condition, price float64, observedAt time.Time) (*library.Observation, error) {
	if strings.TrimSpace(catalogID) == "" {
		return nil, services.Wrap(services.ErrValidation, "pricing", "record", "catalog id required", nil)
	}
	if !condition.Valid() {
		return nil, services.Wrap(services.ErrValidation, "pricing", "record", "unknown condition "+string(condition), nil)
	}
	if price < 0 {
		return nil, services.Wrap(services.ErrValidation, "pricing", "record", "price must not be negative", nil)
	}

	obs, err := s.store.InsertObservation(ctx, library.Observation{
		CatalogID:  catalogID,
		Condition:  condition,
		Price:      &price,
		ObservedAt: observedAt,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "pricing", "record", "append observation", err)
	}
	s.logger.Debug("recorded observation",
		logging.String(logging.FieldCatalogID, catalogID),
		logging.String(logging.FieldCondition, string(condition)),
		logging.Float64("price", price))
	return obs, nil
}

// RecordEmpty appends the marker for an attempted fetch that returned no
// data. The marker consumes the cooldown window exactly like a priced
// reading.
func (s *Service) RecordEmpty(ctx context.Context, catalogID string, observedAt time.Time) error {
	if strings.TrimSpace(catalogID) == "" {
		return services.Wrap(services.ErrValidation, "pricing", "record-empty", "catalog id required", nil)
	}

	_, err := s.store.InsertObservation(ctx, library.Observation{
		CatalogID:  catalogID,
		Condition:  library.ConditionNew,
		ObservedAt: observedAt,
	})
	if err != nil {
		return services.Wrap(services.ErrUnavailable, "pricing", "record-empty", "append observation", err)
	}
	s.logger.Debug("recorded empty observation",
		logging.String(logging.FieldCatalogID, catalogID))
	return nil
}

// RecordSnapshot ingests a fetched snapshot: one observation per condition
// the catalog had data for, or the empty marker when it had none. The whole
// set goes through one write transaction, so a rejected reading leaves no
// partial snapshot behind and the cooldown stays unconsumed. Returns the
// number of priced observations written.
func (s *Service) RecordSnapshot(ctx context.Context, catalogID string, prices catalog.Prices, observedAt time.Time) (int, error) {
	if strings.TrimSpace(catalogID) == "" {
		return 0, services.Wrap(services.ErrValidation, "pricing", "record-snapshot", "catalog id required", nil)
	}
	if prices.Empty() {
		if err := s.RecordEmpty(ctx, catalogID, observedAt); err != nil {
			return 0, err
		}
		return 0, nil
	}

	set := make([]library.Observation, 0, 3)
	for _, reading := range []struct {
		condition library.Condition
		price     *float64
	}{
		{library.ConditionLoose, prices.Loose},
		{library.ConditionComplete, prices.Complete},
		{library.ConditionNew, prices.New},
	} {
		if reading.price == nil {
			continue
		}
		if *reading.price < 0 {
			return 0, services.Wrap(services.ErrValidation, "pricing", "record-snapshot",
				"price for condition "+string(reading.condition)+" must not be negative", nil)
		}
		price := *reading.price
		set = append(set, library.Observation{
			CatalogID:  catalogID,
			Condition:  reading.condition,
			Price:      &price,
			ObservedAt: observedAt,
		})
	}

	if err := s.store.InsertObservationSet(ctx, set); err != nil {
		return 0, services.Wrap(services.ErrUnavailable, "pricing", "record-snapshot", "append observation set", err)
	}
	s.logger.Debug("recorded snapshot",
		logging.String(logging.FieldCatalogID, catalogID),
		logging.Int("conditions", len(set)))
	return len(set), nil
}

// Snapshot is the current price per condition plus the newest observation
// timestamp across conditions.
type Snapshot struct {
	Prices     library.PriceSet
	ObservedAt *time.Time
}

// CurrentPrice returns the latest priced observation for one condition.
// Returns ErrNoPriceData when the pair was never observed or when the
// newest reading is the empty marker.
func (s *Service) CurrentPrice(ctx context.Context, catalogID string, condition library.Condition) (*library.Observation, error) {
	if !condition.Valid() {
		return nil, services.Wrap(services.ErrValidation, "pricing", "current-price", "unknown condition "+string(condition), nil)
	}
	obs, err := s.store.LatestObservation(ctx, catalogID, condition)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "pricing", "current-price", "query latest observation", err)
	}
	if obs == nil || obs.Price == nil {
		return nil, services.Wrap(services.ErrNoPriceData, "pricing", "current-price",
			"no priced observation for "+catalogID+" "+string(condition), nil)
	}
	return obs, nil
}

// CurrentPrices assembles the per-condition projection for one catalog id.
func (s *Service) CurrentPrices(ctx context.Context, catalogID string) (Snapshot, error) {
	observations, err := s.store.LatestObservations(ctx, catalogID)
	if err != nil {
		return Snapshot{}, services.Wrap(services.ErrUnavailable, "pricing", "current-prices", "query latest observations", err)
	}

	var snapshot Snapshot
	for _, obs := range observations {
		if snapshot.ObservedAt == nil || obs.ObservedAt.After(*snapshot.ObservedAt) {
			observed := obs.ObservedAt
			snapshot.ObservedAt = &observed
		}
		if obs.Price == nil {
			continue
		}
		price := *obs.Price
		switch obs.Condition {
		case library.ConditionLoose:
			snapshot.Prices.Loose = &price
		case library.ConditionComplete:
			snapshot.Prices.Complete = &price
		case library.ConditionNew:
			snapshot.Prices.New = &price
		}
	}
	return snapshot, nil
}

// History returns observations for a catalog id newest first. A limit <= 0
// returns everything.
func (s *Service) History(ctx context.Context, catalogID string, limit int) ([]*library.Observation, error) {
	history, err := s.store.ObservationHistory(ctx, catalogID, limit)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "pricing", "history", "query observation history", err)
	}
	return history, nil
}
