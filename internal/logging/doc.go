// Package logging assembles the structured slog loggers used across the
// collection tracker.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so resolve and refresh code
// automatically tags log lines with game IDs, catalog IDs, and cycle IDs.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape and routing as the rest of the system.
package logging
