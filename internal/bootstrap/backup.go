package bootstrap

import (
	"context"

	"github.com/atlantis-diagrams/atlantis-backend/config"
	"github.com/atlantis-diagrams/atlantis-backend/internal/backup"
)

// BackupSink prefers S3 when a bucket is configured, else the local
// directory. It returns nil when neither is set.
func BackupSink(ctx context.Context, cfg config.BackupConfig) (backup.Sink, error) {
	if cfg.S3Bucket != "" {
		s3, err := backup.NewS3Sink(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.Region)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	if cfg.Dir != "" {
		return backup.DirSink{Dir: cfg.Dir, Keep: cfg.Keep}, nil
	}
	return nil, nil
}
