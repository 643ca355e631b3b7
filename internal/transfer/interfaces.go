package transfer

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"io"
)

// SourceClient is the slice of the source platform the download manager
// needs: opening a payload stream for one item.
type SourceClient interface {
	// DownloadRecording returns the payload stream and the length the
	// server declared, or -1 when it did not.
	DownloadRecording(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error)
}

// DestinationClient is the slice of the destination platform the upload
// manager needs.
type DestinationClient interface {
	ResolveDrive(ctx context.Context, library string) (string, error)
	EnsureFolder(ctx context.Context, driveID, folder string) error
	UploadSmall(ctx context.Context, driveID, folder, name string, data []byte) (string, error)
	CreateUploadSession(ctx context.Context, driveID, folder, name string) (string, error)
	UploadChunk(ctx context.Context, uploadURL string, start, end, total int64, data []byte) (string, error)
	SetFields(ctx context.Context, driveID, itemID string, fields map[string]string) error
}
