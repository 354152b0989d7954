package models

import "errors"

var (
	// ErrMissingID marks a record without a usable external identifier.
	ErrMissingID = errors.New("record has no id")
	// ErrMissingTimestamp marks a record without a display timestamp.
	ErrMissingTimestamp = errors.New("record has no timestamp")
	// ErrMissingCapture marks a record without an observation time.
	ErrMissingCapture = errors.New("record has no capture time")
)

// Validate checks structural well-formedness of a single record: a non-empty
// id, a timestamp, and a capture time. Content may be empty and the author
// may be the "unknown" sentinel. Batch-level uniqueness is checked by the
// validator, not here.
func (r Record) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if r.Timestamp == "" {
		return ErrMissingTimestamp
	}
	if r.CapturedAt.IsZero() {
		return ErrMissingCapture
	}
	return nil
}
