package models

import "time"

// AuthorUnknown is the sentinel author used when the source markup carries
// no usable author attribute.
const AuthorUnknown = "unknown"

// Record is one harvested content item from a thread page.
type Record struct {
	// ID is the stable external identifier of the item. Unique within a batch.
	ID string `json:"id"`
	// Author is the display name of the poster, or "unknown".
	Author string `json:"author"`
	// Timestamp is the source-formatted display timestamp. It is treated as
	// an opaque string; the source format is not lexically sortable.
	Timestamp string `json:"timestamp"`
	// Content is the full text of the item. May be empty.
	Content string `json:"content"`
	// CapturedAt is when this observation was made.
	CapturedAt time.Time `json:"captured_at"`
}

// State maps record IDs to the most recently observed Record for that ID.
// It is owned by the state store and replaced wholesale after every
// successful run; it is never merged field by field.
type State map[string]Record

// IDs returns the set of known record IDs.
func (s State) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s))
	for id := range s {
		ids[id] = struct{}{}
	}
	return ids
}

// Rejection describes a record dropped by validation.
type Rejection struct {
	// ID is the offending record's ID, or "unknown" if it had none.
	ID string `json:"id"`
	// Reason explains why the record was rejected.
	Reason string `json:"reason"`
}

// ChangeType classifies how a record differs from its previous observation.
type ChangeType string

const (
	// ChangeNew marks an ID present now but absent before.
	ChangeNew ChangeType = "new"
	// ChangeEdited marks an ID present in both observations whose content
	// or timestamp changed.
	ChangeEdited ChangeType = "edited"
	// ChangeDeleted marks an ID present before but absent now.
	ChangeDeleted ChangeType = "deleted"
	// ChangeAppended marks an edit where the new content is the old content
	// plus a non-empty suffix. Only produced by the content-aware diff.
	ChangeAppended ChangeType = "appended"
)

// Revision is a content/timestamp pair at one point in time.
type Revision struct {
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Edit describes a record present in both observations with a change in
// content or timestamp. Previous and Current carry both sides so no change
// is silently coalesced.
type Edit struct {
	ID         string     `json:"id"`
	Author     string     `json:"author"`
	Type       ChangeType `json:"type"`
	Previous   Revision   `json:"previous"`
	Current    Revision   `json:"current"`
	CapturedAt time.Time  `json:"captured_at"`
}

// DiffSummary provides aggregate counts for a diff.
type DiffSummary struct {
	NewCount      int `json:"new_count"`
	EditedCount   int `json:"edited_count"`
	DeletedCount  int `json:"deleted_count"`
	TotalCurrent  int `json:"total_current"`
	TotalPrevious int `json:"total_previous"`
}

// DiffResult holds the three disjoint change sets between the current batch
// and the previously stored state. It is derived per run and never persisted
// as state.
type DiffResult struct {
	New     []Record    `json:"new"`
	Edited  []Edit      `json:"edited"`
	Deleted []Record    `json:"deleted"`
	Summary DiffSummary `json:"summary"`
}

// Empty reports whether the diff contains no changes at all.
func (d *DiffResult) Empty() bool {
	return len(d.New) == 0 && len(d.Edited) == 0 && len(d.Deleted) == 0
}

// RunMetadata describes one reconciliation attempt. It is reported alongside
// the diff and archived, but never merged into state.
type RunMetadata struct {
	RunID           string    `json:"run_id"`
	TotalPages      int       `json:"total_pages"`
	SuccessfulPages int       `json:"successful_pages"`
	FailedPages     int       `json:"failed_pages"`
	Partial         bool      `json:"partial"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
}

// Outcome is the terminal condition of a reconciliation run.
type Outcome string

const (
	// OutcomeSuccess means every page was fetched and the state persisted.
	OutcomeSuccess Outcome = "success"
	// OutcomePartial means the state persisted but at least one page fetch
	// failed. Success with caveats, never equivalent to full success.
	OutcomePartial Outcome = "partial"
	// OutcomeConflict means another run holds the lock. Nothing was touched.
	OutcomeConflict Outcome = "conflict"
	// OutcomeFailed means the run terminated without persisting state.
	OutcomeFailed Outcome = "failed"
)

// RunResult is the full product of one reconciliation run.
type RunResult struct {
	Outcome Outcome `json:"outcome"`
	// Records is the validated batch that was persisted. Nil when the run failed.
	Records []Record `json:"records,omitempty"`
	// Diff is nil on the first run (no prior state to compare against).
	Diff *DiffResult `json:"diff,omitempty"`
	// Rejections lists records dropped by validation.
	Rejections []Rejection `json:"rejections,omitempty"`
	// FirstRun is true when no prior state existed.
	FirstRun bool `json:"first_run"`
	// StateDegraded is true when the prior state had to be recovered from a
	// backup or abandoned entirely. Surfaced as a warning, never swallowed.
	StateDegraded bool        `json:"state_degraded,omitempty"`
	Metadata      RunMetadata `json:"metadata"`
}
