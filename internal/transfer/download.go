package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sawtoof/zoom-to-sharepoint/internal/classify"
	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
)

// Downloader streams source payloads to the local download directory. File
// names are deterministic per item, so the same logical item always lands at
// the same local path.
type Downloader struct {
	client SourceClient
	dir    string
	logger *slog.Logger
}

func NewDownloader(client SourceClient, dir string, logger *slog.Logger) *Downloader {
	return &Downloader{
		client: client,
		dir:    dir,
		logger: logger.With("component", "download"),
	}
}

// Download fetches one item to disk. A stream that ends with fewer bytes
// than the item declares is a failure; the partial file is left in place for
// diagnosis.
func (d *Downloader) Download(ctx context.Context, item domain.RecordingItem) (*domain.LocalArtifact, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	name := classify.FileName(item)
	path := filepath.Join(d.dir, name)

	d.logger.Info("downloading",
		"file", name,
		"size_bytes", item.Size,
		"meeting_id", item.MeetingID,
	)

	body, _, err := d.client.DownloadRecording(ctx, item.DownloadURL)
	if err != nil {
		return nil, fmt.Errorf("open download stream: %w", err)
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	written, copyErr := io.Copy(f, body)
	if closeErr := f.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		return nil, fmt.Errorf("write %s: %w", path, copyErr)
	}

	if item.Size > 0 && written < item.Size {
		return nil, &domain.SizeMismatchError{Path: path, Declared: item.Size, Written: written}
	}

	d.logger.Info("downloaded", "file", name, "bytes", written)

	return &domain.LocalArtifact{Path: path, Item: item, Size: written}, nil
}
