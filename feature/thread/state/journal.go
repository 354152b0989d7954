package state

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"

	"threadwatch/feature/thread/models"
)

// Journal is a streaming, line-oriented append log of records harvested
// during the current run. If the process is killed mid-run the journal shows
// how far it got; it is diagnostic residue only and is never resumed.
type Journal struct {
	path string
	file *os.File
	w    *bufio.Writer
	enc  *json.Encoder
}

// JournalPath derives the journal file path from a state file path.
func JournalPath(statePath string) string {
	return statePath + ".journal"
}

// OpenJournal truncates and opens the journal for this run.
func OpenJournal(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Journal{path: path, file: f, w: w, enc: enc}, nil
}

// Append writes one record as a JSON line.
func (j *Journal) Append(rec models.Record) error {
	if err := j.enc.Encode(rec); err != nil {
		return err
	}
	return j.w.Flush()
}

// Close flushes and closes the journal, keeping the file on disk.
func (j *Journal) Close() error {
	if j.file == nil {
		return nil
	}
	flushErr := j.w.Flush()
	closeErr := j.file.Close()
	j.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Discard closes and removes the journal after a fully successful run.
func (j *Journal) Discard() error {
	if err := j.Close(); err != nil {
		return err
	}
	if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
