package importer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gameshelf/internal/importer"
	"gameshelf/internal/library"
	"gameshelf/internal/testsupport"
)

func TestSweepProcessesAndRenamesFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.AddGame(ctx, library.Game{Title: "Chrono Trigger", Platform: "Super Nintendo"}); err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}

	testsupport.WriteJSON(t, filepath.Join(cfg.ImportDir(), "ids.json"), []importer.ResolutionRecord{
		{Title: "Chrono Trigger", Platform: "Super Nintendo", CatalogID: "6910"},
	})
	testsupport.WriteFile(t, filepath.Join(cfg.ImportDir(), "broken.json"), "{not json")
	testsupport.WriteFile(t, filepath.Join(cfg.ImportDir(), "notes.txt"), "ignored")

	watcher := importer.NewWatcher(cfg.ImportDir(), importer.New(store, nil), nil)
	processed, err := watcher.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if processed != 2 {
		t.Fatalf("expected 2 files processed, got %d", processed)
	}

	if _, err := os.Stat(filepath.Join(cfg.ImportDir(), "ids.json.done")); err != nil {
		t.Fatalf("expected ids.json renamed to .done: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.ImportDir(), "broken.json.failed")); err != nil {
		t.Fatalf("expected broken.json renamed to .failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.ImportDir(), "notes.txt")); err != nil {
		t.Fatalf("expected notes.txt untouched: %v", err)
	}

	unresolved, err := store.UnresolvedGames(ctx)
	if err != nil {
		t.Fatalf("UnresolvedGames failed: %v", err)
	}
	if len(unresolved) != 0 {
		t.Fatalf("expected game linked by sweep, still unresolved: %#v", unresolved)
	}
}

func TestWatcherPicksUpDroppedFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := importer.NewWatcher(cfg.ImportDir(), importer.New(store, nil), nil)
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail")
	}

	target := filepath.Join(cfg.ImportDir(), "prices.json")
	testsupport.WriteJSON(t, target, []map[string]any{
		{"catalog_id": "6910", "prices": map[string]float64{"loose": 41}},
	})

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(target + ".done"); err == nil {
			obs, err := store.LatestObservation(ctx, "6910", library.ConditionLoose)
			if err != nil {
				t.Fatalf("LatestObservation failed: %v", err)
			}
			if obs == nil || obs.Price == nil || *obs.Price != 41 {
				t.Fatalf("unexpected observation: %#v", obs)
			}
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("dropped file was not processed before the deadline")
}

func TestStartRequiresDirectory(t *testing.T) {
	watcher := importer.NewWatcher("", nil, nil)
	if err := watcher.Start(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
