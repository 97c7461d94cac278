// Package resolve links local games to external catalog entries. Matching
// is exact under normalization: case, punctuation, and whitespace are
// ignored, but a game links only when a single candidate survives. Zero or
// many survivors fail with ranked candidates for the user to inspect.
package resolve
