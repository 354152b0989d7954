// Package storage provides the S3/MinIO client used for off-site state
// snapshots.
//
// The local state file and its rotated backups are the source of truth;
// object storage is an optional extra copy uploaded after each successful
// run. The Client interface exists so the snapshot sink can be tested with
// the testify mocks in storage/mocks without a live endpoint.
package storage
