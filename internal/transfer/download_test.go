package transfer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
	"github.com/sawtoof/zoom-to-sharepoint/internal/transfer/mocks"
)

type DownloaderTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	client     *mocks.MockSourceClient
	downloader *Downloader
	dir        string
}

func (s *DownloaderTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.client = mocks.NewMockSourceClient(s.ctrl)
	s.dir = s.T().TempDir()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.downloader = NewDownloader(s.client, s.dir, logger)
}

func (s *DownloaderTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDownloaderTestSuite(t *testing.T) {
	suite.Run(t, new(DownloaderTestSuite))
}

func downloadItem(size int64) domain.RecordingItem {
	return domain.RecordingItem{
		MeetingID:     "100",
		Topic:         "Weekly Sync",
		StartTime:     time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC),
		RecordingType: "audio_only",
		Extension:     "m4a",
		Size:          size,
		DownloadURL:   "https://zoom.example.com/rec/abc",
	}
}

func (s *DownloaderTestSuite) TestDownload_WritesFileAtDeterministicPath() {
	ctx := context.Background()
	content := "recording bytes"
	item := downloadItem(int64(len(content)))

	s.client.EXPECT().DownloadRecording(ctx, item.DownloadURL).
		Return(io.NopCloser(strings.NewReader(content)), int64(len(content)), nil)

	artifact, err := s.downloader.Download(ctx, item)

	s.Require().NoError(err)
	s.Equal(filepath.Join(s.dir, "2025-12-03_Weekly Sync_audio_only.m4a"), artifact.Path)
	s.Equal(int64(len(content)), artifact.Size)
	s.Equal(item, artifact.Item)

	data, err := os.ReadFile(artifact.Path)
	s.Require().NoError(err)
	s.Equal(content, string(data))
}

func (s *DownloaderTestSuite) TestDownload_ShortStreamIsSizeMismatch() {
	ctx := context.Background()
	item := downloadItem(100)

	s.client.EXPECT().DownloadRecording(ctx, item.DownloadURL).
		Return(io.NopCloser(strings.NewReader("only a few bytes")), int64(100), nil)

	artifact, err := s.downloader.Download(ctx, item)

	s.Nil(artifact)
	var mismatch *domain.SizeMismatchError
	s.Require().True(errors.As(err, &mismatch))
	s.Equal(int64(100), mismatch.Declared)
	s.Equal(int64(16), mismatch.Written)

	// The partial file stays on disk for diagnosis.
	_, statErr := os.Stat(mismatch.Path)
	s.NoError(statErr)
}

func (s *DownloaderTestSuite) TestDownload_UnknownDeclaredSizeIsAccepted() {
	ctx := context.Background()
	item := downloadItem(0)

	s.client.EXPECT().DownloadRecording(ctx, item.DownloadURL).
		Return(io.NopCloser(strings.NewReader("some bytes")), int64(-1), nil)

	artifact, err := s.downloader.Download(ctx, item)

	s.Require().NoError(err)
	s.Equal(int64(10), artifact.Size)
}

func (s *DownloaderTestSuite) TestDownload_StreamOpenFailure() {
	ctx := context.Background()
	item := downloadItem(10)

	s.client.EXPECT().DownloadRecording(ctx, item.DownloadURL).
		Return(nil, int64(0), errors.New("connection reset"))

	artifact, err := s.downloader.Download(ctx, item)

	s.Nil(artifact)
	s.Error(err)
	s.Contains(err.Error(), "open download stream")
}
