package state

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"threadwatch/feature/thread/models"

	"go.uber.org/zap"
)

// ErrNothingToSave means validation rejected the entire batch; no file was
// touched.
var ErrNothingToSave = errors.New("no valid records to save")

// LoadReport describes where a load got its data from.
type LoadReport struct {
	// Source is the file that was actually read, empty on a first run.
	Source string
	// FirstRun is true when no primary state file existed.
	FirstRun bool
	// Degraded is true when the primary was unreadable and a backup (or, in
	// the worst case, nothing at all) had to stand in. Callers must surface
	// this as a warning; it is a silent-data-loss risk.
	Degraded bool
}

// Store is the durable, backup-rotated, atomically-written persistence layer
// for the latest known record batch. It is the only component that writes
// the state file or its backups, always under the run lock.
type Store struct {
	path    string
	backups int
	logger  *zap.Logger
}

// NewStore creates a Store for the configured state file.
func NewStore(cfg Config, l *zap.Logger) *Store {
	backups := cfg.Backups
	if backups <= 0 {
		backups = 5
	}
	return &Store{path: cfg.Path, backups: backups, logger: l}
}

// Path returns the primary state file path.
func (s *Store) Path() string { return s.path }

// LockPath returns the conventional lock file path for this state file.
func (s *Store) LockPath() string { return s.path + ".lock" }

// BackupPath returns the path of backup slot i (1 = most recent).
func (s *Store) BackupPath(i int) string {
	return fmt.Sprintf("%s.backup.%d", s.path, i)
}

// Load reads the most recent valid state. An absent primary is the first-run
// condition and yields an empty state, not an error. A corrupt primary
// triggers the backup cascade, most recent slot first; if every backup is
// also unusable the result is an empty state flagged Degraded.
func (s *Store) Load() (models.State, LoadReport, error) {
	st, err := readStateFile(s.path)
	if err == nil {
		return st, LoadReport{Source: s.path}, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return models.State{}, LoadReport{FirstRun: true}, nil
	}

	s.logger.Warn("state file unreadable, trying backups",
		zap.String("path", s.path), zap.Error(err))

	for i := 1; i <= s.backups; i++ {
		backup := s.BackupPath(i)
		st, err := readStateFile(backup)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("backup unreadable", zap.String("path", backup), zap.Error(err))
			}
			continue
		}
		s.logger.Warn("recovered state from backup",
			zap.String("path", backup), zap.Int("records", len(st)))
		return st, LoadReport{Source: backup, Degraded: true}, nil
	}

	s.logger.Warn("state and all backups unusable, starting from empty state",
		zap.String("path", s.path))
	return models.State{}, LoadReport{Degraded: true}, nil
}

// Save durably replaces the state with the given batch. Backups rotate
// before the primary is touched and the new content lands via a temp file,
// fsync and atomic rename, so a crash at any point leaves either the old
// state or the new one plus a recoverable backup - never neither.
func (s *Store) Save(records []models.Record) error {
	valid := records[:0:0]
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			s.logger.Warn("dropping invalid record at save",
				zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		valid = append(valid, rec)
	}
	if len(valid) == 0 {
		return ErrNothingToSave
	}

	if err := s.rotateBackups(); err != nil {
		return fmt.Errorf("rotate backups: %w", err)
	}

	tmp := fmt.Sprintf("%s.tmp.%d", s.path, os.Getpid())
	if err := writeStateFile(tmp, valid); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// rotateBackups shifts backup k to slot k+1 (oldest kept first, anything
// beyond retention discarded) and copies the current primary into slot 1.
func (s *Store) rotateBackups() error {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for i := s.backups - 1; i >= 1; i-- {
		from := s.BackupPath(i)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, s.BackupPath(i+1)); err != nil {
			return err
		}
	}
	return copyFile(s.path, s.BackupPath(1))
}

// ReadFile reads a single state file without the backup cascade. Used by
// offline tooling that diffs arbitrary state files.
func ReadFile(path string) (models.State, error) {
	return readStateFile(path)
}

func readStateFile(path string) (models.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st := models.State{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec models.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		st[rec.ID] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return st, nil
}

func writeStateFile(path string, records []models.Record) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	// Content is user text; keep non-ASCII and markup characters as-is.
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync state file: %w", err)
	}
	return f.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// CleanStrayTemps removes temp files left behind by killed runs. A new run
// never resumes a half-written temp file; it always starts its own.
func (s *Store) CleanStrayTemps() {
	matches, err := filepath.Glob(s.path + ".tmp.*")
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err == nil {
			s.logger.Warn("removed stray temp state file", zap.String("path", m))
		}
	}
}
