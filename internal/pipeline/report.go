package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/stockplan/backend-go/internal/storage"
)

// LatestReport downloads the most recently modified run report under prefix.
// It returns nil without error when no report has been uploaded yet.
func LatestReport(ctx context.Context, store storage.ObjectStorage, prefix string) (*RunSummary, error) {
	objects, err := store.ListObjects(ctx, storage.RunReportPrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list run reports: %w", err)
	}

	var latest *storage.ObjectInfo
	for i := range objects {
		obj := &objects[i]
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		if latest == nil || obj.LastModified.After(latest.LastModified) {
			latest = obj
		}
	}
	if latest == nil {
		return nil, nil
	}

	dir, err := os.MkdirTemp("", "planning-report-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	defer os.RemoveAll(dir)

	dest := filepath.Join(dir, filepath.Base(latest.Key))
	if err := store.DownloadObject(ctx, latest.Key, dest); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to read run report %s: %w", latest.Key, err)
	}

	var summary RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode run report %s: %w", latest.Key, err)
	}
	return &summary, nil
}
