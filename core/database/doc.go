// Package database handles the run archive database connection.
//
// It provides a wrapper around GORM configured for a local SQLite file that
// records the history of reconciliation runs and their diffs. The archive is
// strictly optional: the state file remains the source of truth, and archive
// failures never fail a run.
//
// # Usage
//
//	db, err := database.Open(cfg.Archive)
//	if err != nil {
//	    log.Warn("archive unavailable", zap.Error(err))
//	}
package database
