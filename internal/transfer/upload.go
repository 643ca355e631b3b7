package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
)

// UploaderConfig holds upload manager settings.
type UploaderConfig struct {
	Libraries []string
	// SmallFileThreshold is the size at which uploads switch from a single
	// request to a chunked session.
	SmallFileThreshold int64
	ChunkSize          int64
	// ChunkRetries bounds attempts per chunk before the item fails.
	ChunkRetries   int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Uploader pushes local artifacts into destination libraries.
type Uploader struct {
	client   DestinationClient
	cfg      UploaderConfig
	driveIDs map[string]string
	logger   *slog.Logger
}

func NewUploader(client DestinationClient, cfg UploaderConfig, logger *slog.Logger) *Uploader {
	return &Uploader{
		client:   client,
		cfg:      cfg,
		driveIDs: make(map[string]string),
		logger:   logger.With("component", "upload"),
	}
}

// Prepare resolves every configured library's drive up front. A missing
// library is a configuration error: no item could succeed, so the run aborts
// before any transfer starts.
func (u *Uploader) Prepare(ctx context.Context) error {
	for _, library := range u.cfg.Libraries {
		id, err := u.client.ResolveDrive(ctx, library)
		if err != nil {
			return fmt.Errorf("resolve library %q: %w", library, err)
		}
		u.driveIDs[library] = id
	}
	return nil
}

// Upload transfers one artifact to its target and attaches metadata. The
// returned outcome is terminal for the item: success, degraded (content
// stored, metadata missing), or failure.
func (u *Uploader) Upload(ctx context.Context, artifact *domain.LocalArtifact, target domain.DestinationTarget) domain.UploadOutcome {
	item := artifact.Item

	driveID, ok := u.driveIDs[target.Library]
	if !ok {
		return domain.Failure(item, fmt.Errorf("library %q was not prepared", target.Library))
	}

	if err := u.client.EnsureFolder(ctx, driveID, target.Folder); err != nil {
		return domain.Failure(item, fmt.Errorf("ensure folder %s: %w", target.Folder, err))
	}

	var itemID string
	var err error
	if artifact.Size < u.cfg.SmallFileThreshold {
		itemID, err = u.uploadSmall(ctx, driveID, artifact, target)
	} else {
		itemID, err = u.uploadChunked(ctx, driveID, artifact, target)
	}
	if err != nil {
		return domain.Failure(item, err)
	}

	u.logger.Info("uploaded",
		"file", target.FileName,
		"library", target.Library,
		"folder", target.Folder,
	)

	fields := map[string]string{
		"MeetingID":      item.MeetingID,
		"Host":           item.HostEmail,
		"RecordingStart": item.StartTime.Format(time.RFC3339),
	}
	if err := u.client.SetFields(ctx, driveID, itemID, fields); err != nil {
		// The artifact itself is safely stored; report degraded so an
		// operator can run a metadata-only repair.
		u.logger.Warn("metadata attach failed", "file", target.FileName, "error", err)
		return domain.Degraded(item, target.RemotePath(), fmt.Errorf("set metadata: %w", err))
	}

	return domain.Success(item, target.RemotePath())
}

func (u *Uploader) uploadSmall(ctx context.Context, driveID string, artifact *domain.LocalArtifact, target domain.DestinationTarget) (string, error) {
	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", artifact.Path, err)
	}

	itemID, err := u.client.UploadSmall(ctx, driveID, target.Folder, target.FileName, data)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", target.FileName, err)
	}
	return itemID, nil
}

// uploadChunked opens a session and sends fixed-size byte ranges in order,
// each acknowledged before the next. A failed chunk is re-sent with the same
// byte range within the retry budget, so a retry can never duplicate bytes.
func (u *Uploader) uploadChunked(ctx context.Context, driveID string, artifact *domain.LocalArtifact, target domain.DestinationTarget) (string, error) {
	f, err := os.Open(artifact.Path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", artifact.Path, err)
	}
	defer f.Close()

	uploadURL, err := u.client.CreateUploadSession(ctx, driveID, target.Folder, target.FileName)
	if err != nil {
		return "", fmt.Errorf("open upload session: %w", err)
	}

	total := artifact.Size
	buf := make([]byte, u.cfg.ChunkSize)
	var itemID string

	for offset := int64(0); offset < total; {
		n, err := io.ReadFull(f, buf)
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			err = nil
		}
		if err != nil {
			return "", fmt.Errorf("read chunk at %d: %w", offset, err)
		}
		if n == 0 {
			return "", fmt.Errorf("file %s shorter than its recorded size", artifact.Path)
		}

		chunk := buf[:n]
		end := offset + int64(n) - 1

		itemID, err = u.sendChunk(ctx, uploadURL, offset, end, total, chunk)
		if err != nil {
			return "", fmt.Errorf("upload chunk %d-%d: %w", offset, end, err)
		}

		offset += int64(n)
	}

	if itemID == "" {
		return "", fmt.Errorf("upload session for %s did not finalize", target.FileName)
	}
	return itemID, nil
}

func (u *Uploader) sendChunk(ctx context.Context, uploadURL string, start, end, total int64, chunk []byte) (string, error) {
	var itemID string
	var err error

	for attempt := 1; attempt <= u.cfg.ChunkRetries; attempt++ {
		itemID, err = u.client.UploadChunk(ctx, uploadURL, start, end, total, chunk)
		if err == nil {
			return itemID, nil
		}
		if attempt == u.cfg.ChunkRetries {
			break
		}

		backoff := calculateBackoff(attempt, u.cfg.InitialBackoff, u.cfg.MaxBackoff)
		u.logger.Warn("chunk upload failed, retrying",
			"range_start", start,
			"range_end", end,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	return "", fmt.Errorf("after %d attempts: %w", u.cfg.ChunkRetries, err)
}

func calculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	backoff := initial
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > max {
		backoff = max
	}
	return backoff
}
