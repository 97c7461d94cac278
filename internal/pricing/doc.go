// Package pricing owns the price half of the reconciliation engine: the
// append-only ingestion of observations, the current-price projection, and
// the cooldown-based eligibility scheduler that picks which linked entries
// are due for a refresh.
package pricing
