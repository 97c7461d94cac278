package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gameshelf/internal/catalog"
	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/pricing"
	"gameshelf/internal/services"
	"gameshelf/internal/testsupport"
)

func newPricingService(t *testing.T) (*pricing.Service, *library.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	return pricing.NewService(store, logging.NewNop()), store
}

func linkGame(t *testing.T, store *library.Store, title, platform, catalogID string) {
	t.Helper()
	game, err := store.AddGame(context.Background(), library.Game{Title: title, Platform: platform})
	if err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}
	if _, err := store.LinkGame(context.Background(), game.ID, library.CatalogEntry{CatalogID: catalogID, Title: title, Platform: platform}); err != nil {
		t.Fatalf("LinkGame failed: %v", err)
	}
}

func TestRecordThenCurrentPrice(t *testing.T) {
	svc, _ := newPricingService(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if _, err := svc.Record(ctx, "6910", library.ConditionLoose, 40, base); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	current, err := svc.CurrentPrice(ctx, "6910", library.ConditionLoose)
	if err != nil {
		t.Fatalf("CurrentPrice failed: %v", err)
	}
	if current == nil || current.Price == nil || *current.Price != 40 {
		t.Fatalf("expected recorded price back, got %#v", current)
	}

	// A later reading supersedes the earlier one.
	if _, err := svc.Record(ctx, "6910", library.ConditionLoose, 44, base.Add(24*time.Hour)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	current, err = svc.CurrentPrice(ctx, "6910", library.ConditionLoose)
	if err != nil {
		t.Fatalf("CurrentPrice failed: %v", err)
	}
	if current == nil || current.Price == nil || *current.Price != 44 {
		t.Fatalf("expected newest price 44, got %#v", current)
	}

	missing, err := svc.CurrentPrice(ctx, "6910", library.ConditionComplete)
	if !errors.Is(err, services.ErrNoPriceData) {
		t.Fatalf("expected ErrNoPriceData for never-observed condition, got %v", err)
	}
	if missing != nil {
		t.Fatalf("expected no observation for never-observed condition, got %#v", missing)
	}
	if services.IsFailure(err) {
		t.Fatalf("missing price data should not count as a failure: %v", err)
	}
}

func TestCurrentPriceEmptyMarkerIsNoData(t *testing.T) {
	svc, _ := newPricingService(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := svc.RecordEmpty(ctx, "6910", now); err != nil {
		t.Fatalf("RecordEmpty failed: %v", err)
	}
	if _, err := svc.CurrentPrice(ctx, "6910", library.ConditionNew); !errors.Is(err, services.ErrNoPriceData) {
		t.Fatalf("expected ErrNoPriceData when the newest reading is the empty marker, got %v", err)
	}
}

func TestRecordValidation(t *testing.T) {
	svc, _ := newPricingService(t)
	ctx := context.Background()
	now := time.Now()

	if _, err := svc.Record(ctx, "", library.ConditionLoose, 10, now); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty catalog id, got %v", err)
	}
	if _, err := svc.Record(ctx, "6910", "mint", 10, now); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown condition, got %v", err)
	}
	if _, err := svc.Record(ctx, "6910", library.ConditionLoose, -1, now); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestRecordSnapshotWritesPerCondition(t *testing.T) {
	svc, _ := newPricingService(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	loose := 44.63
	complete := 104.50
	recorded, err := svc.RecordSnapshot(ctx, "6910", catalog.Prices{Loose: &loose, Complete: &complete}, now)
	if err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}
	if recorded != 2 {
		t.Fatalf("expected 2 observations, got %d", recorded)
	}

	snapshot, err := svc.CurrentPrices(ctx, "6910")
	if err != nil {
		t.Fatalf("CurrentPrices failed: %v", err)
	}
	if snapshot.Prices.Loose == nil || *snapshot.Prices.Loose != loose {
		t.Fatalf("expected loose price, got %#v", snapshot.Prices.Loose)
	}
	if snapshot.Prices.Complete == nil || *snapshot.Prices.Complete != complete {
		t.Fatalf("expected complete price, got %#v", snapshot.Prices.Complete)
	}
	if snapshot.Prices.New != nil {
		t.Fatalf("expected no sealed price, got %#v", snapshot.Prices.New)
	}
	if snapshot.ObservedAt == nil || !snapshot.ObservedAt.Equal(now) {
		t.Fatalf("expected observation time %v, got %#v", now, snapshot.ObservedAt)
	}
}

func TestRecordSnapshotRejectedReadingWritesNothing(t *testing.T) {
	svc, store := newPricingService(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	linkGame(t, store, "Chrono Trigger", "Super Nintendo", "6910")

	loose := 40.0
	complete := -5.0
	recorded, err := svc.RecordSnapshot(ctx, "6910", catalog.Prices{Loose: &loose, Complete: &complete}, now)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for negative reading, got %v", err)
	}
	if recorded != 0 {
		t.Fatalf("expected no observations recorded, got %d", recorded)
	}

	// The set is atomic: the valid loose reading must not survive the
	// rejected complete one.
	history, err := svc.History(ctx, "6910", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected no observations after rejected set, got %d", len(history))
	}

	// And the cooldown stays unconsumed: the entry is still due.
	due, err := svc.DueForRefresh(ctx, now.Add(time.Hour), 7*24*time.Hour, 0)
	if err != nil {
		t.Fatalf("DueForRefresh failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected entry still due after rejected set, got %d", len(due))
	}
}

func TestRecordSnapshotEmptyWritesMarker(t *testing.T) {
	svc, store := newPricingService(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	linkGame(t, store, "Chrono Trigger", "Super Nintendo", "6910")

	recorded, err := svc.RecordSnapshot(ctx, "6910", catalog.Prices{}, now)
	if err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}
	if recorded != 0 {
		t.Fatalf("expected no priced observations, got %d", recorded)
	}

	// The marker consumes the cooldown: the entry is no longer due.
	due, err := svc.DueForRefresh(ctx, now.Add(time.Hour), 7*24*time.Hour, 0)
	if err != nil {
		t.Fatalf("DueForRefresh failed: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected empty due set after marker, got %d entries", len(due))
	}

	history, err := svc.History(ctx, "6910", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].Price != nil {
		t.Fatalf("expected one empty observation, got %#v", history)
	}
}

func TestDueForRefreshCooldownLifecycle(t *testing.T) {
	svc, store := newPricingService(t)
	ctx := context.Background()
	linkGame(t, store, "Chrono Trigger", "Super Nintendo", "6910")

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 7 * 24 * time.Hour

	// Zero observations: always due.
	due, err := svc.DueForRefresh(ctx, start, cooldown, 0)
	if err != nil {
		t.Fatalf("DueForRefresh failed: %v", err)
	}
	if len(due) != 1 || due[0].CatalogID != "6910" {
		t.Fatalf("expected entry due with zero observations, got %#v", due)
	}

	if _, err := svc.Record(ctx, "6910", library.ConditionLoose, 40, start); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// One day later: inside the window.
	due, err = svc.DueForRefresh(ctx, start.Add(24*time.Hour), cooldown, 0)
	if err != nil {
		t.Fatalf("DueForRefresh failed: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected no due entries inside cooldown, got %d", len(due))
	}

	// Exactly one cooldown later: due again.
	due, err = svc.DueForRefresh(ctx, start.Add(cooldown), cooldown, 0)
	if err != nil {
		t.Fatalf("DueForRefresh failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected entry due at the cooldown boundary, got %d", len(due))
	}
}

func TestDueForRefreshValidatesCooldown(t *testing.T) {
	svc, _ := newPricingService(t)

	if _, err := svc.DueForRefresh(context.Background(), time.Now(), 0, 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for zero cooldown, got %v", err)
	}
}
