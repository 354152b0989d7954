// Package thread implements the thread harvesting feature.
//
// It reconciles a paginated, append-and-edit forum thread against the
// durable record of what previous runs have seen, reporting only what
// changed.
//
// # Run Pipeline
//
// One reconciliation run proceeds through fixed stages:
//
//	lock -> fetch all pages -> validate -> diff -> persist -> report
//
// The run lock rejects (never queues) a concurrent run against the same
// state file. Pages are fetched strictly in sequence; a failed page is
// counted and skipped, but a failed first page aborts, because the first
// page carries the pagination indicator. Validation drops malformed and
// duplicate-id records without aborting unless nothing survives. The diff
// runs only when prior state exists. Persistence failures are always fatal:
// a run that cannot durably record its results reports failure even though
// the fetch itself succeeded. A run with failed pages that still persisted
// is reported as partial, distinguishable from full success.
//
// # Components
//
//   - Service: the reconciliation orchestrator.
//   - ParsePageCount / ParseRecords: HTML extraction via goquery.
//   - ValidateBatch: structural and uniqueness validation.
//   - Handler: read-only HTTP status routes for watch mode.
//   - Feature: registers the handler with the application loader.
//
// The diff engine, state store, run archive and snapshot sink live in the
// diff, state, archive and snapshot sub-packages.
//
// # HTTP Endpoints
//
//   - GET /thread/status : outcome of the most recent run in this process.
//   - GET /thread/state : summary of the persisted state file.
//   - GET /thread/runs : recent archived runs (archive enabled only).
package thread
