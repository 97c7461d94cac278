// Package services defines shared utilities consumed across the collection
// tracker.
//
// Key responsibilities:
//   - Context helpers that stamp game IDs, catalog IDs, and refresh cycle
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     consistently (ambiguous match vs transport failure vs valid-but-empty
//     outcomes) for resolve and refresh reporting.
//
// Use these helpers when wiring new operations so error handling and
// observability stay uniform across the CLI, the daemon, and the web API.
package services
