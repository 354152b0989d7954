package archive

import (
	"fmt"
	"time"

	"threadwatch/feature/thread/models"

	"gorm.io/gorm"
)

// Run is one archived reconciliation run.
type Run struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	RunID        string `gorm:"size:36;uniqueIndex" json:"run_id"`
	Outcome      string `gorm:"size:16" json:"outcome"`
	FirstRun     bool   `json:"first_run"`
	Partial      bool   `json:"partial"`
	TotalRecords int    `json:"total_records"`
	NewCount     int    `json:"new_count"`
	EditedCount  int    `json:"edited_count"`
	DeletedCount int    `json:"deleted_count"`
	TotalPages   int    `json:"total_pages"`
	FailedPages  int    `json:"failed_pages"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	CreatedAt    time.Time `json:"-"`
}

// Change is one archived difference belonging to a run.
type Change struct {
	ID                uint   `gorm:"primaryKey" json:"-"`
	RunID             string `gorm:"size:36;index" json:"run_id"`
	RecordID          string `gorm:"size:64;index" json:"record_id"`
	Type              string `gorm:"size:16" json:"type"`
	Author            string `json:"author"`
	PreviousContent   string `json:"previous_content,omitempty"`
	PreviousTimestamp string `json:"previous_timestamp,omitempty"`
	CurrentContent    string `json:"current_content,omitempty"`
	CurrentTimestamp  string `json:"current_timestamp,omitempty"`
	CapturedAt        time.Time `json:"captured_at"`
}

// Recorder appends run history to the archive database.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder migrates the archive schema and returns a Recorder.
func NewRecorder(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(&Run{}, &Change{}); err != nil {
		return nil, fmt.Errorf("migrate archive schema: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Record archives one completed run and its diff in a single transaction.
// The state file is already durable when this runs, so callers treat a
// failure here as a warning, never as a run failure.
func (r *Recorder) Record(res *models.RunResult) error {
	run := Run{
		RunID:        res.Metadata.RunID,
		Outcome:      string(res.Outcome),
		FirstRun:     res.FirstRun,
		Partial:      res.Metadata.Partial,
		TotalRecords: len(res.Records),
		TotalPages:   res.Metadata.TotalPages,
		FailedPages:  res.Metadata.FailedPages,
		StartedAt:    res.Metadata.StartTime,
		FinishedAt:   res.Metadata.EndTime,
	}

	var changes []Change
	if res.Diff != nil {
		run.NewCount = res.Diff.Summary.NewCount
		run.EditedCount = res.Diff.Summary.EditedCount
		run.DeletedCount = res.Diff.Summary.DeletedCount

		for _, rec := range res.Diff.New {
			changes = append(changes, Change{
				RunID:            res.Metadata.RunID,
				RecordID:         rec.ID,
				Type:             string(models.ChangeNew),
				Author:           rec.Author,
				CurrentContent:   rec.Content,
				CurrentTimestamp: rec.Timestamp,
				CapturedAt:       rec.CapturedAt,
			})
		}
		for _, edit := range res.Diff.Edited {
			changes = append(changes, Change{
				RunID:             res.Metadata.RunID,
				RecordID:          edit.ID,
				Type:              string(edit.Type),
				Author:            edit.Author,
				PreviousContent:   edit.Previous.Content,
				PreviousTimestamp: edit.Previous.Timestamp,
				CurrentContent:    edit.Current.Content,
				CurrentTimestamp:  edit.Current.Timestamp,
				CapturedAt:        edit.CapturedAt,
			})
		}
		for _, rec := range res.Diff.Deleted {
			changes = append(changes, Change{
				RunID:             res.Metadata.RunID,
				RecordID:          rec.ID,
				Type:              string(models.ChangeDeleted),
				Author:            rec.Author,
				PreviousContent:   rec.Content,
				PreviousTimestamp: rec.Timestamp,
				CapturedAt:        rec.CapturedAt,
			})
		}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		return tx.CreateInBatches(changes, 200).Error
	})
}

// RecentRuns returns the most recent archived runs, newest first.
func (r *Recorder) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := r.db.Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// Changes returns the archived changes of one run.
func (r *Recorder) Changes(runID string) ([]Change, error) {
	var changes []Change
	err := r.db.Where("run_id = ?", runID).Order("record_id").Find(&changes).Error
	return changes, err
}
