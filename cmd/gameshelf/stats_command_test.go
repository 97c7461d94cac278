package main

import "testing"

func TestStatsCountsAndValue(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "add", "--title", "Chrono Trigger", "--platform", "Super Nintendo", "--price", "60")
	mustRunCLI(t, env, "add", "--title", "Metroid Prime", "--platform", "GameCube")
	mustRunCLI(t, env, "add", "--title", "Earthbound", "--platform", "Super Nintendo", "--wishlist")

	out := mustRunCLI(t, env, "stats")
	requireContains(t, out, "Owned games")
	requireContains(t, out, "Wishlist entries")
	requireContains(t, out, "Super Nintendo")
	requireContains(t, out, "GameCube")
	requireContains(t, out, "Recent acquisitions")

	out = mustRunCLI(t, env, "stats", "--json")
	requireContains(t, out, `"owned": 2`)
	requireContains(t, out, `"wanted": 1`)
}
