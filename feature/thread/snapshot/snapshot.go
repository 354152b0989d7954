package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"threadwatch/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Prefix is the object key prefix under which snapshots are stored.
const Prefix = "snapshots/"

// Sink uploads state snapshots to object storage after successful runs and
// prunes old ones beyond the retention count.
type Sink struct {
	client storage.Client
	cfg    storage.Config
	logger *zap.Logger
}

// NewSink creates a snapshot sink backed by the given storage client.
func NewSink(client storage.Client, cfg storage.Config, l *zap.Logger) *Sink {
	return &Sink{client: client, cfg: cfg, logger: l}
}

// Upload copies the state file to the snapshot bucket, keyed by the state
// file name and the run id, then prunes snapshots beyond the retention
// count. The local state is already durable when Upload runs; callers treat
// errors as warnings.
func (s *Sink) Upload(ctx context.Context, statePath, runID string) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check snapshot bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create snapshot bucket: %w", err)
		}
	}

	f, err := os.Open(statePath)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	objectName := s.objectPrefix(statePath) + runID
	_, err = s.client.PutObject(ctx, s.cfg.Bucket, objectName, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/x-ndjson",
	})
	if err != nil {
		return fmt.Errorf("upload snapshot %s: %w", objectName, err)
	}

	s.prune(ctx, statePath)
	return nil
}

// List returns the snapshot object names for the given state file, newest
// first.
func (s *Sink) List(ctx context.Context, statePath string) ([]string, error) {
	infos, err := s.list(ctx, statePath)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Key)
	}
	return names, nil
}

func (s *Sink) objectPrefix(statePath string) string {
	return Prefix + filepath.Base(statePath) + "."
}

func (s *Sink) list(ctx context.Context, statePath string) ([]minio.ObjectInfo, error) {
	var infos []minio.ObjectInfo
	for info := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    s.objectPrefix(statePath),
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, info.Err
		}
		if strings.HasSuffix(info.Key, "/") {
			continue
		}
		infos = append(infos, info)
	}
	// Newest first.
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastModified.After(infos[j].LastModified)
	})
	return infos, nil
}

func (s *Sink) prune(ctx context.Context, statePath string) {
	retain := s.cfg.Retain
	if retain <= 0 {
		return
	}
	infos, err := s.list(ctx, statePath)
	if err != nil {
		s.logger.Warn("failed to list snapshots for pruning", zap.Error(err))
		return
	}
	for _, info := range infos[min(retain, len(infos)):] {
		if err := s.client.RemoveObject(ctx, s.cfg.Bucket, info.Key, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warn("failed to prune snapshot",
				zap.String("object", info.Key), zap.Error(err))
		}
	}
}
