// Package state persists the latest known record batch durably.
//
// # Format
//
// The state file is JSON Lines: one record per line, UTF-8, with HTML
// escaping disabled so non-ASCII content round-trips losslessly. The format
// supports both whole-file atomic replace (Store.Save) and streaming append
// (Journal).
//
// # Durability
//
// Save rotates backup k to k+1 (retaining Config.Backups slots), copies the
// current primary into slot 1, writes the new batch to a PID-keyed temp file
// in the same directory, fsyncs it, and atomically renames it over the
// primary. Rotation happens before the write so a crash in between never
// loses both the previous state and a recoverable backup.
//
// Load falls back through the numbered backups, most recent first, when the
// primary is unreadable or contains records that fail validation. Exhausting
// every backup yields an empty state with LoadReport.Degraded set; callers
// must surface that as a warning because it risks silently re-reporting old
// content as new.
package state
