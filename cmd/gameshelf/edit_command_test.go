package main

import (
	"errors"
	"testing"

	"gameshelf/internal/services"
)

func TestEditChangesOnlyPassedFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "add",
		"--title", "Final Fantasy 3",
		"--platform", "Super Nintendo",
		"--condition", "loose",
		"--price", "40")

	out := mustRunCLI(t, env, "edit", "1", "--title", "Final Fantasy VI", "--condition", "complete")
	requireContains(t, out, "Updated #1 Final Fantasy VI")

	out = mustRunCLI(t, env, "list")
	requireContains(t, out, "Final Fantasy VI")
	requireContains(t, out, "complete")
	requireContains(t, out, "$40.00")
}

func TestEditWishlistRejectsPurchaseDetails(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "add", "--title", "Earthbound", "--platform", "Super Nintendo", "--wishlist")

	if _, _, err := runCLI(t, env, "edit", "1", "--price", "200"); err == nil {
		t.Fatal("expected price edit on a wishlist entry to fail")
	}
}

func TestEditUnknownGame(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "edit", "99", "--title", "Nothing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error for missing game, got %v", err)
	}
}
