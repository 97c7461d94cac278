// Package preflight provides readiness checks for external services
// and filesystem paths that gameshelf depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup. If any check fails, startup
//     halts rather than running refresh cycles against a broken setup.
//   - The CLI "gameshelf status" command uses individual check functions
//     (CheckCatalog, CheckDirectoryAccess) to display service health.
package preflight
