package main

import (
	"strings"
	"testing"
)

func TestAddListSearchRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "add",
		"--title", "Chrono Trigger",
		"--platform", "Super Nintendo",
		"--condition", "cib",
		"--price", "59.99",
		"--date", "2026-01-15")
	requireContains(t, out, "Added Chrono Trigger (Super Nintendo) as #1 to the owned")

	out = mustRunCLI(t, env, "add",
		"--title", "Earthbound",
		"--platform", "Super Nintendo",
		"--wishlist")
	requireContains(t, out, "to the wishlist")

	out = mustRunCLI(t, env, "list")
	requireContains(t, out, "Chrono Trigger")
	requireContains(t, out, "complete")
	requireContains(t, out, "$59.99")
	if strings.Contains(out, "Earthbound") {
		t.Fatalf("wishlist entry leaked into collection listing:\n%s", out)
	}

	out = mustRunCLI(t, env, "list", "--wishlist")
	requireContains(t, out, "Earthbound")

	out = mustRunCLI(t, env, "search", "chrono")
	requireContains(t, out, "Chrono Trigger")

	out = mustRunCLI(t, env, "search", "zelda")
	requireContains(t, out, "No games match")
}

func TestAddWishlistRejectsPurchaseDetails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "add",
		"--title", "Earthbound",
		"--platform", "Super Nintendo",
		"--wishlist",
		"--price", "120")
	if err == nil {
		t.Fatal("expected wishlist add with --price to fail")
	}
}

func TestListJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "add", "--title", "Metroid Prime", "--platform", "GameCube")
	out := mustRunCLI(t, env, "list", "--json")
	requireContains(t, out, `"title": "Metroid Prime"`)
	requireContains(t, out, `"source": "owned"`)
}
