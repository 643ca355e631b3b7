package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
)

// Catalog produces the run's item list.
type Catalog interface {
	Read(ctx context.Context, from, to time.Time) (*domain.CatalogResult, error)
}

// Downloader fetches one item's payload to local disk.
type Downloader interface {
	Download(ctx context.Context, item domain.RecordingItem) (*domain.LocalArtifact, error)
}

// Uploader pushes a local artifact to its destination target.
type Uploader interface {
	Prepare(ctx context.Context) error
	Upload(ctx context.Context, artifact *domain.LocalArtifact, target domain.DestinationTarget) domain.UploadOutcome
}
