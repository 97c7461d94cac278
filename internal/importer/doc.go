// Package importer bulk-loads catalog resolutions and price observations
// from JSON files, either on demand or from a watched drop directory in
// daemon mode. Imported links and observations go through the same storage
// paths as the resolver and pricing service.
package importer
