// Package refresh advances linked catalog entries through reconciliation
// cycles.
//
// The Manager computes the due set (entries whose newest observation has
// aged past the cooldown window), fetches current prices for each one
// sequentially, and appends observations through the pricing service. A
// fetch that succeeds but carries no prices records the empty marker so the
// entry still consumes its cooldown; an outright fetch failure records
// nothing and the entry stays due. Each cycle produces a CycleReport with
// per-entry outcomes regardless of how many entries failed.
//
// Start/Stop run cycles on the configured interval for daemon mode; RunCycle
// serves the one-shot CLI path.
package refresh
