// Package pricechart implements the catalog interfaces against a
// pricecharting-compatible HTTP API: product search plus per-id price
// snapshots, with prices converted from cents to dollars.
package pricechart
