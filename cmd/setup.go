package cmd

import (
	"threadwatch/core/config"
	"threadwatch/core/database"
	"threadwatch/core/fetch"
	"threadwatch/core/storage"
	"threadwatch/feature/thread"
	"threadwatch/feature/thread/archive"
	"threadwatch/feature/thread/snapshot"
	"threadwatch/feature/thread/state"

	"go.uber.org/zap"
)

// buildService assembles the orchestrator and its optional sinks from the
// configuration. Archive and snapshot failures downgrade to warnings: the
// scraper still works as a plain state-file tool without them.
func buildService(cfg *config.Config, l *zap.Logger) *thread.Service {
	fetcher := fetch.NewFetcher(cfg.Fetch, l)
	store := state.NewStore(cfg.State, l)

	var recorder *archive.Recorder
	if cfg.Archive.Enabled {
		if db, err := database.Open(cfg.Archive); err != nil {
			l.Warn("run archive unavailable", zap.Error(err))
		} else if rec, err := archive.NewRecorder(db); err != nil {
			l.Warn("run archive unavailable", zap.Error(err))
		} else {
			recorder = rec
			l.Info("run archive enabled", zap.String("path", cfg.Archive.Path))
		}
	}

	var sink *snapshot.Sink
	if cfg.Storage.Enabled {
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			l.Warn("snapshot storage unavailable", zap.Error(err))
		} else {
			sink = snapshot.NewSink(client, cfg.Storage, l)
			l.Info("state snapshots enabled", zap.String("bucket", cfg.Storage.Bucket))
		}
	}

	return thread.NewService(cfg.Thread, cfg.State, fetcher, store, recorder, sink, l)
}
