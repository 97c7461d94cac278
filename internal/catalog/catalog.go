// Package catalog defines the narrow surface the reconciliation engine needs
// from an external pricing catalog. Implementations live in subpackages;
// tests substitute fakes.
package catalog

import "context"

// Candidate is one external catalog record returned by a search.
type Candidate struct {
	CatalogID string
	Title     string
	Platform  string
	URL       string
}

// Prices is one fetched snapshot in dollars. A nil field means the catalog
// has no data for that condition.
type Prices struct {
	Loose    *float64
	Complete *float64
	New      *float64
}

// Empty reports whether the snapshot carries no data at all.
func (p Prices) Empty() bool {
	return p.Loose == nil && p.Complete == nil && p.New == nil
}

// Searcher finds catalog records matching a local title and platform.
type Searcher interface {
	Search(ctx context.Context, title, platform string) ([]Candidate, error)
}

// PriceFetcher retrieves the current price snapshot for an external catalog
// id.
type PriceFetcher interface {
	FetchPrices(ctx context.Context, catalogID string) (Prices, error)
}

// Client bundles both capabilities.
type Client interface {
	Searcher
	PriceFetcher
}
