// Package sqlite provides the SQLite-backed snapshot store and run history.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Both stores share one database connection:
//
//   - SnapshotStore: baseline snapshots keyed by name, versioned by an
//     integer column for compare-and-swap writes
//   - RunStore: one row per tracking run
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.sanctrack/data/sanctrack.db
package sqlite
