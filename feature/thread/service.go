package thread

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"threadwatch/core/fetch"
	"threadwatch/core/lock"
	"threadwatch/core/logger"
	"threadwatch/feature/thread/archive"
	"threadwatch/feature/thread/diff"
	"threadwatch/feature/thread/models"
	"threadwatch/feature/thread/snapshot"
	"threadwatch/feature/thread/state"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoData means no page yielded any records.
	ErrNoData = errors.New("no records harvested")
	// ErrNothingValid means validation rejected every harvested record.
	ErrNothingValid = errors.New("no records survived validation")
	// ErrFirstPage means the discovery fetch of page 1 failed; there is no
	// page count and no data, so the run aborts.
	ErrFirstPage = errors.New("first page fetch failed")
)

// Service is the reconciliation orchestrator. It composes the fetcher, the
// validator, the diff engine and the state store into one run:
// acquire lock, fetch all pages, validate, diff against stored state,
// persist, report. The service keeps no state between runs other than the
// files owned by the state store; watch mode simply calls Run repeatedly.
type Service struct {
	cfg      Config
	stateCfg state.Config
	fetcher  *fetch.Fetcher
	store    *state.Store
	recorder *archive.Recorder
	sink     *snapshot.Sink
	logger   *zap.Logger

	mu   sync.RWMutex
	last *models.RunResult
}

// NewService wires the orchestrator. recorder and sink may be nil when the
// archive or snapshot features are disabled.
func NewService(cfg Config, stateCfg state.Config, fetcher *fetch.Fetcher, store *state.Store, recorder *archive.Recorder, sink *snapshot.Sink, l *zap.Logger) *Service {
	return &Service{
		cfg:      cfg,
		stateCfg: stateCfg,
		fetcher:  fetcher,
		store:    store,
		recorder: recorder,
		sink:     sink,
		logger:   l,
	}
}

// Latest returns the result of the most recent run in this process, or nil.
func (s *Service) Latest() *models.RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Store exposes the state store for read-only callers (status handler,
// state command).
func (s *Service) Store() *state.Store {
	return s.store
}

// Recorder exposes the run archive, or nil when disabled.
func (s *Service) Recorder() *archive.Recorder {
	return s.recorder
}

// Run executes one reconciliation. The returned result always carries a
// terminal outcome; the error is non-nil exactly when the outcome is not a
// success (conflict or failure), so callers can branch on either.
func (s *Service) Run(ctx context.Context) (*models.RunResult, error) {
	result := &models.RunResult{
		Metadata: models.RunMetadata{
			RunID:     uuid.NewString(),
			StartTime: time.Now(),
		},
	}
	l := logger.WithRunID(s.logger, result.Metadata.RunID)

	guard, err := lock.Acquire(s.store.LockPath(), l)
	if err != nil {
		result.Outcome = models.OutcomeFailed
		if errors.Is(err, lock.ErrAlreadyRunning) {
			result.Outcome = models.OutcomeConflict
		}
		result.Metadata.EndTime = time.Now()
		return s.finish(l, result), err
	}
	defer guard.Release()

	// Temp files from killed runs are never resumed, only removed.
	s.store.CleanStrayTemps()

	records, runErr := s.fetchAll(ctx, l, result)
	if runErr != nil {
		return s.fail(l, result, runErr)
	}
	if len(records) == 0 {
		return s.fail(l, result, ErrNoData)
	}

	accepted, rejections := ValidateBatch(records)
	result.Rejections = rejections
	if len(rejections) > 0 {
		l.Warn("records rejected by validation", zap.Int("count", len(rejections)))
	}
	if len(accepted) == 0 {
		return s.fail(l, result, ErrNothingValid)
	}

	previous, report, err := s.store.Load()
	if err != nil {
		return s.fail(l, result, fmt.Errorf("load state: %w", err))
	}
	result.FirstRun = report.FirstRun
	result.StateDegraded = report.Degraded
	if report.Degraded {
		l.Warn("prior state was recovered from backup or lost entirely; diff may re-report old content",
			zap.String("source", report.Source))
	}

	// First run has nothing to diff against; the batch goes straight to
	// persistence with a null diff.
	if !report.FirstRun {
		result.Diff = s.computeDiff(accepted, previous)
		l.Info("diff computed",
			zap.Int("new", result.Diff.Summary.NewCount),
			zap.Int("edited", result.Diff.Summary.EditedCount),
			zap.Int("deleted", result.Diff.Summary.DeletedCount),
		)
	}

	if err := s.store.Save(accepted); err != nil {
		// Durability is never best-effort: a run that cannot record its
		// results fails even though the fetch succeeded.
		return s.fail(l, result, fmt.Errorf("persist state: %w", err))
	}
	result.Records = accepted

	result.Outcome = models.OutcomeSuccess
	if result.Metadata.Partial {
		result.Outcome = models.OutcomePartial
		l.Warn("partial run: some pages failed to fetch",
			zap.Int("failed_pages", result.Metadata.FailedPages),
			zap.Int("total_pages", result.Metadata.TotalPages),
		)
	}
	result.Metadata.EndTime = time.Now()

	s.postPersist(ctx, l, result)

	l.Info("run finished",
		zap.String("outcome", string(result.Outcome)),
		zap.Int("records", len(accepted)),
		zap.Bool("first_run", result.FirstRun),
	)
	return s.finish(l, result), nil
}

// fetchAll discovers the page count from page 1 and walks every page in
// order. A per-page failure is counted and skipped; only a failing first
// page aborts.
func (s *Service) fetchAll(ctx context.Context, l *zap.Logger, result *models.RunResult) ([]models.Record, error) {
	first, err := s.fetcher.Fetch(ctx, s.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFirstPage, err)
	}

	pages := ParsePageCount(first)
	result.Metadata.TotalPages = pages
	targets := fetch.PageTargets(s.cfg.BaseURL, pages)
	l.Info("discovered pages", zap.Int("pages", pages))

	var journal *state.Journal
	if s.stateCfg.Journal {
		j, err := state.OpenJournal(state.JournalPath(s.store.Path()))
		if err != nil {
			l.Warn("failed to open progress journal", zap.Error(err))
		} else {
			journal = j
		}
	}

	capturedAt := time.Now()
	var records []models.Record
	for i, target := range targets {
		var html string
		var err error
		if i == 0 {
			// The discovery fetch already holds page 1.
			html = first
		} else {
			html, err = s.fetcher.Fetch(ctx, target)
		}
		if err != nil {
			result.Metadata.FailedPages++
			result.Metadata.Partial = true
			l.Warn("page fetch failed", zap.Int("page", i+1), zap.Error(err))
			continue
		}

		pageRecords := ParseRecords(html, capturedAt)
		result.Metadata.SuccessfulPages++
		l.Debug("page harvested", zap.Int("page", i+1), zap.Int("records", len(pageRecords)))

		for _, rec := range pageRecords {
			records = append(records, rec)
			if journal != nil {
				if err := journal.Append(rec); err != nil {
					l.Warn("journal append failed", zap.Error(err))
					journal = nil
				}
			}
		}
	}

	if journal != nil {
		if result.Metadata.FailedPages == 0 {
			if err := journal.Discard(); err != nil {
				l.Warn("failed to discard journal", zap.Error(err))
			}
		} else {
			// Keep the journal of a partial run for inspection.
			_ = journal.Close()
		}
	}
	return records, nil
}

func (s *Service) computeDiff(accepted []models.Record, previous models.State) *models.DiffResult {
	if diff.Mode(s.cfg.DiffMode) == diff.ModeAppend {
		return diff.ComputeContentAware(accepted, previous)
	}
	return diff.Compute(accepted, previous)
}

// postPersist runs the best-effort sinks. State is durable by now; nothing
// here may change the run's outcome.
func (s *Service) postPersist(ctx context.Context, l *zap.Logger, result *models.RunResult) {
	if s.recorder != nil {
		if err := s.recorder.Record(result); err != nil {
			l.Warn("failed to archive run", zap.Error(err))
		}
	}
	if s.sink != nil {
		if err := s.sink.Upload(ctx, s.store.Path(), result.Metadata.RunID); err != nil {
			l.Warn("failed to upload state snapshot", zap.Error(err))
		}
	}
}

func (s *Service) fail(l *zap.Logger, result *models.RunResult, err error) (*models.RunResult, error) {
	result.Outcome = models.OutcomeFailed
	result.Metadata.EndTime = time.Now()
	l.Error("run failed", zap.Error(err))
	return s.finish(l, result), err
}

func (s *Service) finish(_ *zap.Logger, result *models.RunResult) *models.RunResult {
	s.mu.Lock()
	s.last = result
	s.mu.Unlock()
	return result
}
