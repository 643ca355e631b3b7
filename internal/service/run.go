package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sawtoof/zoom-to-sharepoint/internal/classify"
	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
)

// Config holds one run's parameters.
type Config struct {
	From time.Time
	To   time.Time
	// DownloadOnly stops the pipeline after download: no destination call
	// is made and local files are retained.
	DownloadOnly bool
	Libraries    classify.Libraries
}

// Runner drives the per-item pipeline: list, download, classify, upload,
// cleanup. Item outcomes are independent; one item's failure never blocks
// another's processing.
type Runner struct {
	catalog    Catalog
	downloader Downloader
	uploader   Uploader
	logger     *slog.Logger
	cfg        Config
}

func NewRunner(
	catalog Catalog,
	downloader Downloader,
	uploader Uploader,
	logger *slog.Logger,
	cfg Config,
) *Runner {
	return &Runner{
		catalog:    catalog,
		downloader: downloader,
		uploader:   uploader,
		logger:     logger.With("component", "runner"),
		cfg:        cfg,
	}
}

// Run executes the pipeline to completion and returns the summary. A non-nil
// error is a fatal, run-level condition; the summary is still returned with
// whatever was processed before the abort.
func (r *Runner) Run(ctx context.Context) (*domain.RunSummary, error) {
	startTime := time.Now()
	summary := domain.NewRunSummary()

	r.logger.Info("starting run",
		"from", r.cfg.From.Format("2006-01-02"),
		"to", r.cfg.To.Format("2006-01-02"),
		"download_only", r.cfg.DownloadOnly,
	)

	// Resolve destination drives before touching any item: a missing
	// library or bad destination credentials fails every item, so abort now.
	if !r.cfg.DownloadOnly {
		if err := r.uploader.Prepare(ctx); err != nil {
			return summary, fmt.Errorf("prepare destination: %w", err)
		}
	}

	res, err := r.catalog.Read(ctx, r.cfg.From, r.cfg.To)
	if err != nil {
		return summary, fmt.Errorf("read catalog: %w", err)
	}
	summary.MemberErrors = res.MemberErrors

	r.logger.Info("catalog complete",
		"items", len(res.Items),
		"member_errors", len(res.MemberErrors),
	)

	for _, item := range res.Items {
		select {
		case <-ctx.Done():
			summary.Duration = time.Since(startTime)
			return summary, ctx.Err()
		default:
		}

		outcome, fatal := r.processItem(ctx, item)
		summary.Record(outcome)

		if outcome.Status == domain.OutcomeFailed {
			r.logger.Error("item failed",
				"meeting_id", item.MeetingID,
				"kind", string(item.Kind()),
				"error", outcome.Err,
			)
		}

		if fatal {
			summary.Duration = time.Since(startTime)
			return summary, fmt.Errorf("process %s: %w", item.MeetingID, outcome.Err)
		}
	}

	summary.Duration = time.Since(startTime)

	r.logger.Info("run completed",
		"attempted", summary.TotalAttempted(),
		"succeeded", summary.TotalSucceeded(),
		"degraded", summary.TotalDegraded(),
		"failed", summary.TotalFailed(),
		"duration", summary.Duration,
	)

	return summary, nil
}

// processItem walks one item through its pipeline. The fatal flag is set
// only for source authorization failures: the credential is dead, so every
// remaining download would fail identically.
func (r *Runner) processItem(ctx context.Context, item domain.RecordingItem) (domain.UploadOutcome, bool) {
	artifact, err := r.downloader.Download(ctx, item)
	if err != nil {
		fatal := errors.Is(err, domain.ErrUnauthorized)
		return domain.Failure(item, err), fatal
	}

	if r.cfg.DownloadOnly {
		return domain.Success(item, artifact.Path), false
	}

	target, err := classify.Target(item, r.cfg.Libraries)
	if err != nil {
		return domain.Failure(item, err), false
	}

	outcome := r.uploader.Upload(ctx, artifact, target)

	// Content that reached the destination no longer needs its local copy.
	// Failed items keep theirs for diagnosis.
	if outcome.Status != domain.OutcomeFailed {
		if err := os.Remove(artifact.Path); err != nil {
			r.logger.Warn("failed to remove local file", "path", artifact.Path, "error", err)
		}
	}

	return outcome, false
}
