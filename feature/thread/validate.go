package thread

import (
	"fmt"

	"threadwatch/feature/thread/models"
)

// ValidateBatch enforces structural well-formedness and id uniqueness on a
// batch of records. Structurally invalid records and later duplicates of an
// already-seen id are dropped with a reason, never fatally; the first
// occurrence of an id wins. A batch where nothing survives is a condition
// the orchestrator treats as a hard failure, not this function.
func ValidateBatch(records []models.Record) ([]models.Record, []models.Rejection) {
	accepted := make([]models.Record, 0, len(records))
	var rejections []models.Rejection

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			id := rec.ID
			if id == "" {
				id = "unknown"
			}
			rejections = append(rejections, models.Rejection{
				ID:     id,
				Reason: err.Error(),
			})
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			rejections = append(rejections, models.Rejection{
				ID:     rec.ID,
				Reason: fmt.Sprintf("duplicate id %s", rec.ID),
			})
			continue
		}
		seen[rec.ID] = struct{}{}
		accepted = append(accepted, rec)
	}
	return accepted, rejections
}
