// Package config loads, normalizes, and validates gameshelf configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PRICECHARTING_API_KEY. The Config type centralizes every knob the CLI and
// daemon need, so the database location, catalog credentials, and refresh
// cadence are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
