package library_test

import (
	"context"
	"testing"
	"time"

	"gameshelf/internal/library"
	"gameshelf/internal/testsupport"
)

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	game, err := store.AddGame(ctx, library.Game{Title: "Chrono Trigger", Platform: "Super Nintendo"})
	if err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}
	if game.ID == 0 {
		t.Fatal("expected game ID to be assigned")
	}
	if game.Source != library.SourceOwned {
		t.Fatalf("expected owned source, got %s", game.Source)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	fetched, err := reopened.Game(ctx, game.ID)
	if err != nil {
		t.Fatalf("Game failed: %v", err)
	}
	if fetched == nil || fetched.Title != "Chrono Trigger" {
		t.Fatalf("unexpected fetched game: %#v", fetched)
	}
}

func TestAddGameValidatesInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.AddGame(ctx, library.Game{Platform: "SNES"}); err == nil {
		t.Fatal("expected error when title missing")
	}
	if _, err := store.AddGame(ctx, library.Game{Title: "Earthbound"}); err == nil {
		t.Fatal("expected error when platform missing")
	}
	if _, err := store.AddGame(ctx, library.Game{Title: "Earthbound", Platform: "SNES", Condition: "mint"}); err == nil {
		t.Fatal("expected error for unknown condition")
	}
}

func TestGameReturnsNilWhenMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	game, err := store.Game(context.Background(), 9999)
	if err != nil {
		t.Fatalf("Game failed: %v", err)
	}
	if game != nil {
		t.Fatalf("expected nil for missing game, got %#v", game)
	}
}

func TestWishlistPromoteAndRemove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	wanted, err := store.AddWanted(ctx, library.Game{Title: "Panzer Dragoon Saga", Platform: "Saturn", Condition: library.ConditionComplete})
	if err != nil {
		t.Fatalf("AddWanted failed: %v", err)
	}
	if wanted.Source != library.SourceWanted {
		t.Fatalf("expected wanted source, got %s", wanted.Source)
	}

	paid := 450.0
	when := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	promoted, err := store.PromoteWanted(ctx, wanted.ID, library.ConditionComplete, &paid, &when)
	if err != nil {
		t.Fatalf("PromoteWanted failed: %v", err)
	}
	if promoted.Source != library.SourceOwned {
		t.Fatalf("expected owned after promote, got %s", promoted.Source)
	}
	if promoted.PricePaid == nil || *promoted.PricePaid != paid {
		t.Fatalf("expected price paid %v, got %#v", paid, promoted.PricePaid)
	}
	if promoted.AcquisitionDate == nil || !promoted.AcquisitionDate.Equal(when) {
		t.Fatalf("expected acquisition date %v, got %#v", when, promoted.AcquisitionDate)
	}

	if _, err := store.PromoteWanted(ctx, wanted.ID, "", nil, nil); err == nil {
		t.Fatal("expected error promoting a game no longer on the wishlist")
	}

	removed, err := store.RemoveWanted(ctx, wanted.ID)
	if err != nil {
		t.Fatalf("RemoveWanted failed: %v", err)
	}
	if removed {
		t.Fatal("expected RemoveWanted to report false for an owned game")
	}

	other, err := store.AddWanted(ctx, library.Game{Title: "Radiant Silvergun", Platform: "Saturn"})
	if err != nil {
		t.Fatalf("AddWanted failed: %v", err)
	}
	removed, err = store.RemoveWanted(ctx, other.ID)
	if err != nil {
		t.Fatalf("RemoveWanted failed: %v", err)
	}
	if !removed {
		t.Fatal("expected RemoveWanted to delete the wishlist game")
	}
	gone, err := store.Game(ctx, other.ID)
	if err != nil {
		t.Fatalf("Game failed: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected removed game to be gone, got %#v", gone)
	}
}

func TestLinkGameReusesCatalogEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first, err := store.AddGame(ctx, library.Game{Title: "Chrono Trigger", Platform: "Super Nintendo"})
	if err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}
	second, err := store.AddGame(ctx, library.Game{Title: "Chrono Trigger", Platform: "Super Nintendo"})
	if err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}

	entry := library.CatalogEntry{CatalogID: "6910", Title: "Chrono Trigger", Platform: "Super Nintendo", URL: "https://example.com/chrono-trigger"}
	linkedFirst, err := store.LinkGame(ctx, first.ID, entry)
	if err != nil {
		t.Fatalf("LinkGame failed: %v", err)
	}
	linkedSecond, err := store.LinkGame(ctx, second.ID, entry)
	if err != nil {
		t.Fatalf("LinkGame failed: %v", err)
	}
	if linkedFirst.ID != linkedSecond.ID {
		t.Fatalf("expected both copies to share one catalog entry, got %d and %d", linkedFirst.ID, linkedSecond.ID)
	}

	if _, err := store.LinkGame(ctx, first.ID, entry); err == nil {
		t.Fatal("expected error linking an already linked game")
	}

	_, fetched, err := store.LinkForGame(ctx, first.ID)
	if err != nil {
		t.Fatalf("LinkForGame failed: %v", err)
	}
	if fetched == nil || fetched.CatalogID != "6910" {
		t.Fatalf("unexpected linked entry: %#v", fetched)
	}

	unresolved, err := store.UnresolvedGames(ctx)
	if err != nil {
		t.Fatalf("UnresolvedGames failed: %v", err)
	}
	if len(unresolved) != 0 {
		t.Fatalf("expected no unresolved games, got %d", len(unresolved))
	}
}

func TestUpdateGamePropagatesToCatalogEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	game, err := store.AddGame(ctx, library.Game{Title: "Chrono Triger", Platform: "SNES"})
	if err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}
	if _, err := store.LinkGame(ctx, game.ID, library.CatalogEntry{CatalogID: "6910", Title: "Chrono Triger", Platform: "SNES"}); err != nil {
		t.Fatalf("LinkGame failed: %v", err)
	}

	game.Title = "Chrono Trigger"
	game.Platform = "Super Nintendo"
	game.Condition = library.ConditionComplete
	if err := store.UpdateGame(ctx, game); err != nil {
		t.Fatalf("UpdateGame failed: %v", err)
	}

	updated, err := store.Game(ctx, game.ID)
	if err != nil {
		t.Fatalf("Game failed: %v", err)
	}
	if updated.Title != "Chrono Trigger" || updated.Condition != library.ConditionComplete {
		t.Fatalf("unexpected updated game: %#v", updated)
	}

	_, entry, err := store.LinkForGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("LinkForGame failed: %v", err)
	}
	if entry.Title != "Chrono Trigger" || entry.Platform != "Super Nintendo" {
		t.Fatalf("expected edit to propagate to catalog entry, got %#v", entry)
	}
}

func TestLatestObservationPrefersNewestThenHighestID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "6910", Condition: library.ConditionLoose, Price: floatPtr(40), ObservedAt: base}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}
	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "6910", Condition: library.ConditionLoose, Price: floatPtr(44), ObservedAt: base.Add(24 * time.Hour)}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}

	latest, err := store.LatestObservation(ctx, "6910", library.ConditionLoose)
	if err != nil {
		t.Fatalf("LatestObservation failed: %v", err)
	}
	if latest == nil || latest.Price == nil || *latest.Price != 44 {
		t.Fatalf("expected newest price 44, got %#v", latest)
	}

	// Same timestamp: the higher row id wins.
	tied := base.Add(48 * time.Hour)
	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "6910", Condition: library.ConditionLoose, Price: floatPtr(50), ObservedAt: tied}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}
	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "6910", Condition: library.ConditionLoose, Price: floatPtr(52), ObservedAt: tied}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}
	latest, err = store.LatestObservation(ctx, "6910", library.ConditionLoose)
	if err != nil {
		t.Fatalf("LatestObservation failed: %v", err)
	}
	if latest == nil || latest.Price == nil || *latest.Price != 52 {
		t.Fatalf("expected tie broken by row id, got %#v", latest)
	}

	// A newer empty reading masks the older price.
	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "6910", Condition: library.ConditionLoose, ObservedAt: tied.Add(24 * time.Hour)}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}
	latest, err = store.LatestObservation(ctx, "6910", library.ConditionLoose)
	if err != nil {
		t.Fatalf("LatestObservation failed: %v", err)
	}
	if latest == nil || latest.Price != nil {
		t.Fatalf("expected empty current reading, got %#v", latest)
	}

	missing, err := store.LatestObservation(ctx, "6910", library.ConditionNew)
	if err != nil {
		t.Fatalf("LatestObservation failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for never-observed condition, got %#v", missing)
	}
}

func TestDueEntriesCooldownBoundaryAndOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	cooldown := 7 * 24 * time.Hour
	cutoff := now.Add(-cooldown)

	games := []struct {
		title     string
		catalogID string
	}{
		{"Alundra", "100"},
		{"Breath of Fire", "200"},
		{"Chrono Cross", "300"},
		{"Doom 64", "400"},
	}
	for _, g := range games {
		game, err := store.AddGame(ctx, library.Game{Title: g.title, Platform: "Various"})
		if err != nil {
			t.Fatalf("AddGame failed: %v", err)
		}
		if _, err := store.LinkGame(ctx, game.ID, library.CatalogEntry{CatalogID: g.catalogID, Title: g.title, Platform: "Various"}); err != nil {
			t.Fatalf("LinkGame failed: %v", err)
		}
	}

	// Alundra: never observed. Breath of Fire: observed exactly at the
	// cutoff. Chrono Cross: observed inside the window, but only via an
	// empty reading. Doom 64: stale observation.
	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "200", Condition: library.ConditionLoose, Price: floatPtr(25), ObservedAt: cutoff}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}
	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "300", Condition: library.ConditionNew, ObservedAt: now.Add(-time.Hour)}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}
	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "400", Condition: library.ConditionLoose, Price: floatPtr(80), ObservedAt: now.Add(-30 * 24 * time.Hour)}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}

	due, err := store.DueEntries(ctx, cutoff, 0)
	if err != nil {
		t.Fatalf("DueEntries failed: %v", err)
	}
	var titles []string
	for _, entry := range due {
		titles = append(titles, entry.Title)
	}
	want := []string{"Alundra", "Breath of Fire", "Doom 64"}
	if len(titles) != len(want) {
		t.Fatalf("expected due set %v, got %v", want, titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("expected due set %v, got %v", want, titles)
		}
	}

	capped, err := store.DueEntries(ctx, cutoff, 2)
	if err != nil {
		t.Fatalf("DueEntries failed: %v", err)
	}
	if len(capped) != 2 || capped[0].Title != "Alundra" || capped[1].Title != "Breath of Fire" {
		t.Fatalf("expected capped due set to keep title order, got %#v", capped)
	}
}

func TestEntryStates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	cooldown := 7 * 24 * time.Hour

	unlinked, err := store.AddGame(ctx, library.Game{Title: "Axelay", Platform: "SNES"})
	if err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}
	noData, err := store.AddGame(ctx, library.Game{Title: "Bonk's Adventure", Platform: "TurboGrafx-16"})
	if err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}
	stale, err := store.AddGame(ctx, library.Game{Title: "Contra", Platform: "NES"})
	if err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}
	fresh, err := store.AddWanted(ctx, library.Game{Title: "Dragon Quest V", Platform: "Super Famicom"})
	if err != nil {
		t.Fatalf("AddWanted failed: %v", err)
	}

	for _, link := range []struct {
		id        int64
		catalogID string
	}{
		{noData.ID, "b-1"},
		{stale.ID, "c-1"},
		{fresh.ID, "d-1"},
	} {
		game, err := store.Game(ctx, link.id)
		if err != nil {
			t.Fatalf("Game failed: %v", err)
		}
		if _, err := store.LinkGame(ctx, link.id, library.CatalogEntry{CatalogID: link.catalogID, Title: game.Title, Platform: game.Platform}); err != nil {
			t.Fatalf("LinkGame failed: %v", err)
		}
	}

	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "c-1", Condition: library.ConditionLoose, Price: floatPtr(15), ObservedAt: now.Add(-8 * 24 * time.Hour)}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}
	// An empty reading inside the window still counts as fresh.
	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "d-1", Condition: library.ConditionNew, ObservedAt: now.Add(-time.Hour)}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}

	states, err := store.EntryStates(ctx, now, cooldown)
	if err != nil {
		t.Fatalf("EntryStates failed: %v", err)
	}
	byID := make(map[int64]library.GameState, len(states))
	for _, state := range states {
		byID[state.Game.ID] = state
	}

	if got := byID[unlinked.ID].State; got != library.StateUnlinked {
		t.Fatalf("expected unlinked, got %s", got)
	}
	if got := byID[noData.ID].State; got != library.StateLinkedNoData {
		t.Fatalf("expected linked_no_data, got %s", got)
	}
	if got := byID[stale.ID].State; got != library.StateLinkedStale {
		t.Fatalf("expected linked_stale, got %s", got)
	}
	if got := byID[fresh.ID].State; got != library.StateLinkedFresh {
		t.Fatalf("expected linked_fresh, got %s", got)
	}
	if byID[fresh.ID].LastObserved == nil {
		t.Fatal("expected last observed timestamp for fresh entry")
	}
	if byID[unlinked.ID].LastObserved != nil {
		t.Fatal("expected no last observed timestamp for unlinked entry")
	}
}

func TestCollectionRowsAndStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	paid := 120.0
	owned, err := store.AddGame(ctx, library.Game{Title: "Chrono Trigger", Platform: "Super Nintendo", Condition: library.ConditionComplete, PricePaid: &paid})
	if err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}
	if _, err := store.AddGame(ctx, library.Game{Title: "Earthbound", Platform: "Super Nintendo"}); err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}
	if _, err := store.AddWanted(ctx, library.Game{Title: "Mother 3", Platform: "Game Boy Advance"}); err != nil {
		t.Fatalf("AddWanted failed: %v", err)
	}

	if _, err := store.LinkGame(ctx, owned.ID, library.CatalogEntry{CatalogID: "6910", Title: "Chrono Trigger", Platform: "Super Nintendo"}); err != nil {
		t.Fatalf("LinkGame failed: %v", err)
	}
	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "6910", Condition: library.ConditionLoose, Price: floatPtr(45.5), ObservedAt: now}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}
	if _, err := store.InsertObservation(ctx, library.Observation{CatalogID: "6910", Condition: library.ConditionComplete, Price: floatPtr(110), ObservedAt: now}); err != nil {
		t.Fatalf("InsertObservation failed: %v", err)
	}

	rows, err := store.CollectionRows(ctx)
	if err != nil {
		t.Fatalf("CollectionRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 collection rows, got %d", len(rows))
	}
	if rows[0].Title != "Chrono Trigger" || rows[1].Title != "Earthbound" {
		t.Fatalf("expected title order, got %q then %q", rows[0].Title, rows[1].Title)
	}
	if rows[0].Prices.Loose == nil || *rows[0].Prices.Loose != 45.5 {
		t.Fatalf("expected loose price 45.5, got %#v", rows[0].Prices.Loose)
	}
	if rows[0].Prices.New != nil {
		t.Fatalf("expected no sealed price, got %#v", rows[0].Prices.New)
	}
	if rows[1].CatalogID != "" || rows[1].Prices.Loose != nil {
		t.Fatalf("expected unlinked row without prices, got %#v", rows[1])
	}

	wishlist, err := store.WishlistRows(ctx)
	if err != nil {
		t.Fatalf("WishlistRows failed: %v", err)
	}
	if len(wishlist) != 1 || wishlist[0].Title != "Mother 3" {
		t.Fatalf("unexpected wishlist rows: %#v", wishlist)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Owned != 2 || stats.Wanted != 1 || stats.Linked != 1 || stats.Unresolved != 2 {
		t.Fatalf("unexpected counts: %#v", stats)
	}
	if stats.Value.Loose != 45.5 || stats.Value.Complete != 110 || stats.Value.New != 0 {
		t.Fatalf("unexpected value totals: %#v", stats.Value)
	}
	if stats.Value.Priced != 1 {
		t.Fatalf("expected one priced game, got %d", stats.Value.Priced)
	}
	if len(stats.Platforms) == 0 || stats.Platforms[0].Platform != "Super Nintendo" || stats.Platforms[0].Count != 2 {
		t.Fatalf("unexpected platform distribution: %#v", stats.Platforms)
	}
	if len(stats.Recent) == 0 {
		t.Fatal("expected recent additions")
	}
}

func TestParseCondition(t *testing.T) {
	cases := []struct {
		input string
		want  library.Condition
		ok    bool
	}{
		{"loose", library.ConditionLoose, true},
		{"CIB", library.ConditionComplete, true},
		{" sealed ", library.ConditionNew, true},
		{"new", library.ConditionNew, true},
		{"mint", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := library.ParseCondition(tc.input)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseCondition(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
