package main

import (
	"path/filepath"
	"testing"

	"gameshelf/internal/testsupport"
)

func TestImportIDsThenPrices(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "add", "--title", "Chrono Trigger", "--platform", "Super Nintendo")

	base := t.TempDir()
	idsPath := filepath.Join(base, "ids.json")
	testsupport.WriteJSON(t, idsPath, []map[string]string{
		{"title": "Chrono Trigger", "platform": "Super Nintendo", "catalog_id": "CT-1"},
		{"title": "Earthbound", "platform": "Super Nintendo", "catalog_id": "EB-1"},
	})

	out := mustRunCLI(t, env, "import", "ids", idsPath)
	requireContains(t, out, "Applied 1 of 2 records (1 skipped, 0 failed)")

	pricesPath := filepath.Join(base, "prices.json")
	testsupport.WriteJSON(t, pricesPath, []map[string]any{
		{
			"catalog_id": "CT-1",
			"prices":     map[string]float64{"loose": 80, "complete": 150},
		},
	})

	out = mustRunCLI(t, env, "import", "prices", pricesPath)
	requireContains(t, out, "Applied 1 of 1 records")

	out = mustRunCLI(t, env, "prices", "1")
	requireContains(t, out, "CT-1")
	requireContains(t, out, "$80.00")
	requireContains(t, out, "$150.00")

	out = mustRunCLI(t, env, "prices", "1", "--history")
	requireContains(t, out, "loose")
	requireContains(t, out, "complete")
}

func TestImportFailureExitsNonZero(t *testing.T) {
	env := setupCLITestEnv(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	testsupport.WriteJSON(t, path, []map[string]string{
		{"platform": "Super Nintendo", "catalog_id": "X-1"},
	})

	out, _, err := runCLI(t, env, "import", "ids", path)
	if err == nil {
		t.Fatalf("expected failed records to surface as an error:\n%s", out)
	}
}

func TestImportSweepProcessesDropDir(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "add", "--title", "Chrono Trigger", "--platform", "Super Nintendo")
	testsupport.WriteJSON(t, filepath.Join(env.cfg.ImportDir(), "ids.json"), []map[string]string{
		{"title": "Chrono Trigger", "platform": "Super Nintendo", "catalog_id": "CT-1"},
	})

	out := mustRunCLI(t, env, "import", "sweep")
	requireContains(t, out, "Processed 1 file(s)")
}

func TestPricesRequiresLink(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "add", "--title", "Chrono Trigger", "--platform", "Super Nintendo")
	if _, _, err := runCLI(t, env, "prices", "1"); err == nil {
		t.Fatal("expected prices on an unlinked game to fail")
	}
}
