// Command gameshelf tracks a physical game collection and reconciles it
// against an external pricing catalog: resolving local titles to catalog
// ids, refreshing price observations on a cooldown, and reporting
// collection value.
package main
