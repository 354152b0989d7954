// Package archive records the history of reconciliation runs in a local
// SQLite database.
//
// The state file only keeps the latest batch; the archive keeps every run's
// metadata and diff rows so "what changed when" stays queryable after the
// fact. It is optional and strictly secondary: archiving happens after the
// state is already durable, and archive errors are logged warnings, never
// run failures.
package archive
