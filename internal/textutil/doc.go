// Package textutil provides the text normalization used for catalog
// resolution plus similarity helpers for ranking candidate matches.
//
// The primary use cases are:
//   - Building case-folded, punctuation-insensitive query keys so local
//     titles and catalog titles compare on content rather than formatting
//   - Deriving the hyphenated slugs the external catalog uses in URLs
//   - Scoring candidate titles against a query with token-vector cosine
//     similarity, used only to order suggestions for manual review
package textutil
