package storage

import (
	"context"
	"path"
	"strings"
	"time"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage captures the minimal S3-compatible operations the planner needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

// RunReportPrefix returns the key prefix under which run reports are stored.
func RunReportPrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return "runs/"
	}
	return path.Join(prefix, "runs") + "/"
}

// RunReportKey returns the object key of a planning run report.
func RunReportKey(prefix, runID string) string {
	return RunReportPrefix(prefix) + runID + ".json"
}
