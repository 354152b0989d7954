package diff

import (
	"sort"
	"strings"

	"threadwatch/feature/thread/models"
)

// Mode selects which diff semantics a deployment uses.
type Mode string

const (
	// ModePlain classifies every common-id change as edited.
	ModePlain Mode = "plain"
	// ModeAppend additionally distinguishes append-only edits.
	ModeAppend Mode = "append"
)

// Valid reports whether m names a known diff mode.
func (m Mode) Valid() bool {
	return m == ModePlain || m == ModeAppend
}

// Compute partitions the union of ids between the current batch and the
// previous state into disjoint new/edited/deleted sets. Every common id is
// evaluated exactly once; any inequality in content or timestamp marks the
// record edited, carrying both sides. Results are sorted by id so output is
// deterministic.
func Compute(current []models.Record, previous models.State) *models.DiffResult {
	return compute(current, previous, ModePlain)
}

// ComputeContentAware is Compute with append classification: a change whose
// new content is the old content plus a non-blank suffix is reported as
// appended, carrying only the appended delta. All other changes are edited
// with the full new content.
//
// This is a prefix heuristic, not a true diff: a multi-point edit that
// happens to preserve the old content as a prefix is reported as appended.
func ComputeContentAware(current []models.Record, previous models.State) *models.DiffResult {
	return compute(current, previous, ModeAppend)
}

func compute(current []models.Record, previous models.State, mode Mode) *models.DiffResult {
	currentByID := make(map[string]models.Record, len(current))
	for _, rec := range current {
		if _, seen := currentByID[rec.ID]; !seen {
			currentByID[rec.ID] = rec
		}
	}

	result := &models.DiffResult{
		New:     []models.Record{},
		Edited:  []models.Edit{},
		Deleted: []models.Record{},
	}

	for id, rec := range currentByID {
		prev, existed := previous[id]
		if !existed {
			result.New = append(result.New, rec)
			continue
		}
		if rec.Content == prev.Content && rec.Timestamp == prev.Timestamp {
			continue
		}
		result.Edited = append(result.Edited, classify(prev, rec, mode))
	}

	for id, prev := range previous {
		if _, present := currentByID[id]; !present {
			result.Deleted = append(result.Deleted, prev)
		}
	}

	sort.Slice(result.New, func(i, j int) bool { return result.New[i].ID < result.New[j].ID })
	sort.Slice(result.Edited, func(i, j int) bool { return result.Edited[i].ID < result.Edited[j].ID })
	sort.Slice(result.Deleted, func(i, j int) bool { return result.Deleted[i].ID < result.Deleted[j].ID })

	result.Summary = models.DiffSummary{
		NewCount:      len(result.New),
		EditedCount:   len(result.Edited),
		DeletedCount:  len(result.Deleted),
		TotalCurrent:  len(currentByID),
		TotalPrevious: len(previous),
	}
	return result
}

func classify(prev, curr models.Record, mode Mode) models.Edit {
	edit := models.Edit{
		ID:     curr.ID,
		Author: curr.Author,
		Type:   models.ChangeEdited,
		Previous: models.Revision{
			Content:   prev.Content,
			Timestamp: prev.Timestamp,
		},
		Current: models.Revision{
			Content:   curr.Content,
			Timestamp: curr.Timestamp,
		},
		CapturedAt: curr.CapturedAt,
	}

	if mode != ModeAppend || curr.Content == prev.Content {
		return edit
	}

	if strings.HasPrefix(curr.Content, prev.Content) {
		appended := curr.Content[len(prev.Content):]
		if strings.TrimSpace(appended) != "" {
			edit.Type = models.ChangeAppended
			edit.Current.Content = trimDelta(appended)
		}
	}
	return edit
}

// trimDelta strips the whitespace and separator punctuation that authors
// put between the original body and an appended update, leaving the delta
// itself.
func trimDelta(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, " \t\r\n.,;:-"))
}
