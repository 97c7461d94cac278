// Package webapi serves read-only JSON views of the collection over HTTP:
// the collection and wishlist with current prices, reconciliation status,
// and a health endpoint. Mutation stays on the CLI.
package webapi
