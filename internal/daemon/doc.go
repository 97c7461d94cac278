// Package daemon runs gameshelf in serve mode: periodic refresh cycles,
// the read-only web API, and the import drop-directory watcher, behind a
// file lock that enforces a single instance per data directory.
package daemon
