// Package library persists the game collection in SQLite: physical games,
// purchase and wishlist details, catalog entries, game-to-catalog links, and
// the append-only price observation log. All writes go through this package
// so the single-writer discipline lives in one place.
package library
