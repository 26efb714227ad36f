// Package domain defines the core business entities for sanctrack.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entry: One sanctioned individual in canonical form
//   - Snapshot: The ordered list of entries published at one point in time
//   - DiffResult: Added, removed and modified entries between two snapshots
//   - Report: Counts and detail lists shaped for presentation
//   - RunResult: The outcome of one tracking run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
