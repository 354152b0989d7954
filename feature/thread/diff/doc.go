// Package diff computes set- and content-level differences between a freshly
// harvested batch of records and the previously stored state.
//
// # Semantics
//
// The union of ids is partitioned into three disjoint sets: new (present now,
// absent before), deleted (present before, absent now) and edited (present in
// both with changed content or timestamp). Every common id is evaluated
// exactly once and no change is coalesced or dropped. Output slices are
// sorted by id so two runs over the same inputs produce identical results.
//
// # Modes
//
// Two diff semantics exist and deployments pick one:
//
//   - plain: every common-id change is edited, carrying both revisions.
//   - append: a change whose new content extends the old content with a
//     non-blank suffix is reported as appended, carrying only the delta.
//
// The append classification is a prefix heuristic. A multi-point edit or a
// reordering that coincidentally preserves the old content as a prefix will
// be reported as appended. This is a documented limitation of the rule, not
// a defect to compensate for.
package diff
