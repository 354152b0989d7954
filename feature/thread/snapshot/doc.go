// Package snapshot uploads state file copies to S3-compatible object
// storage.
//
// Local backups protect against file corruption; snapshots protect against
// losing the host. After every successful run the fresh state file is put
// under snapshots/<state-file-name>.<run-id> and snapshots beyond the
// retention count are pruned, oldest first. Like the archive, this is
// best-effort by design: the run's outcome never depends on it.
package snapshot
