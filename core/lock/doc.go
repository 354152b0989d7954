// Package lock provides the cross-process run lock.
//
// Only one reconciliation run may execute against a given state file at a
// time. A manual run overlapping a scheduled one is rejected immediately
// with ErrAlreadyRunning, never queued. The lock file is conventionally
// colocated with the state file as <state>.lock and carries the owning PID
// as diagnostic text.
package lock
