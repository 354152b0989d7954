// Package models defines the data model shared by the thread feature.
//
// # Core Types
//
//   - Record: one harvested content item (id, author, timestamp, content, capture time).
//   - State: the full set of most-recently-known Records, keyed by id.
//   - DiffResult / Edit: the derived change sets between two observations.
//   - RunMetadata / RunResult: the ephemeral description of one reconciliation run.
//
// # Invariants
//
// Within any single batch, Record.ID is unique; duplicates are dropped by
// validation (first occurrence wins) and surfaced as Rejections. State is
// replaced wholesale by the state store after every successful run; no partial
// update is ever visible externally.
package models
