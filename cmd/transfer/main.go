package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sawtoof/zoom-to-sharepoint/internal/catalog"
	"github.com/sawtoof/zoom-to-sharepoint/internal/classify"
	"github.com/sawtoof/zoom-to-sharepoint/internal/config"
	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
	"github.com/sawtoof/zoom-to-sharepoint/internal/graph"
	"github.com/sawtoof/zoom-to-sharepoint/internal/service"
	"github.com/sawtoof/zoom-to-sharepoint/internal/transfer"
	"github.com/sawtoof/zoom-to-sharepoint/internal/zoom"
)

var (
	configPath   string
	downloadDir  string
	downloadOnly bool
)

var rootCmd = &cobra.Command{
	Use:   "transfer <from-date> <to-date>",
	Short: "Transfer Zoom group recordings to SharePoint",
	Long: `Downloads cloud recordings for every member of a Zoom group within a
date range and uploads them into date-structured SharePoint libraries.

Dates are inclusive and use YYYY-MM-DD format.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	rootCmd.Flags().StringVar(&downloadDir, "download-dir", "", "temporary download directory (default: ./downloads)")
	rootCmd.Flags().BoolVar(&downloadOnly, "download-only", false, "only download files, keep them locally, never contact SharePoint")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	from, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return fmt.Errorf("invalid from-date %q: expected YYYY-MM-DD", args[0])
	}
	to, err := time.Parse("2006-01-02", args[1])
	if err != nil {
		return fmt.Errorf("invalid to-date %q: expected YYYY-MM-DD", args[1])
	}
	if from.After(to) {
		return fmt.Errorf("from-date %s is after to-date %s", args[0], args[1])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if downloadDir != "" {
		cfg.Transfer.DownloadDir = downloadDir
	}
	if err := cfg.Validate(downloadOnly); err != nil {
		return err
	}

	logger := setupLogger(cfg.LogLevel).With("run_id", uuid.NewString())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	zoomClient := zoom.New(zoom.Config{
		AccountID:      cfg.Zoom.AccountID,
		ClientID:       cfg.Zoom.ClientID,
		ClientSecret:   cfg.Zoom.ClientSecret,
		BaseURL:        cfg.Zoom.BaseURL,
		PageSize:       cfg.API.PageSize,
		Timeout:        cfg.API.Timeout,
		MaxAttempts:    cfg.API.Retry.MaxAttempts,
		InitialBackoff: cfg.API.Retry.InitialBackoff,
		MaxBackoff:     cfg.API.Retry.MaxBackoff,
	}, logger)

	reader := catalog.NewReader(zoomClient, catalog.Config{
		GroupID:     cfg.Zoom.GroupID,
		MemberDelay: cfg.Transfer.MemberDelay,
	}, logger)

	downloader := transfer.NewDownloader(zoomClient, cfg.Transfer.DownloadDir, logger)

	libraries := classify.Libraries{
		Video: cfg.SharePoint.VideoLibrary,
		Audio: cfg.SharePoint.AudioLibrary,
	}

	// In download-only mode the uploader is never constructed, so no
	// destination credential is ever needed or used.
	var uploader service.Uploader
	if !downloadOnly {
		graphClient := graph.New(graph.Config{
			TenantID:       cfg.SharePoint.TenantID,
			ClientID:       cfg.SharePoint.ClientID,
			ClientSecret:   cfg.SharePoint.ClientSecret,
			SiteURL:        cfg.SharePoint.SiteURL,
			Timeout:        cfg.API.Timeout,
			MaxAttempts:    cfg.API.Retry.MaxAttempts,
			InitialBackoff: cfg.API.Retry.InitialBackoff,
			MaxBackoff:     cfg.API.Retry.MaxBackoff,
		}, logger)

		uploader = transfer.NewUploader(graphClient, transfer.UploaderConfig{
			Libraries:          []string{libraries.Video, libraries.Audio},
			SmallFileThreshold: cfg.Transfer.SmallFileThreshold,
			ChunkSize:          cfg.Transfer.ChunkSize,
			ChunkRetries:       cfg.Transfer.ChunkRetries,
			InitialBackoff:     cfg.API.Retry.InitialBackoff,
			MaxBackoff:         cfg.API.Retry.MaxBackoff,
		}, logger)
	}

	runner := service.NewRunner(reader, downloader, uploader, logger, service.Config{
		From:         from,
		To:           to,
		DownloadOnly: downloadOnly,
		Libraries:    libraries,
	})

	summary, runErr := runner.Run(ctx)
	if summary != nil {
		printSummary(summary, downloadOnly, cfg.Transfer.DownloadDir)
	}

	if runErr != nil {
		logger.Error("run aborted", "error", runErr)
		os.Exit(1)
	}
	if !summary.OK() {
		os.Exit(1)
	}
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func printSummary(s *domain.RunSummary, downloadOnly bool, downloadDir string) {
	fmt.Println()
	fmt.Println("SUMMARY")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tATTEMPTED\tSUCCEEDED\tDEGRADED\tFAILED")
	for _, kind := range []domain.MediaKind{domain.KindVideo, domain.KindAudio, domain.KindTranscript, domain.KindUnknown} {
		counts, ok := s.Counts[kind]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			kind, counts.Attempted, counts.Succeeded, counts.Degraded, counts.Failed)
	}
	fmt.Fprintf(w, "total\t%d\t%d\t%d\t%d\n",
		s.TotalAttempted(), s.TotalSucceeded(), s.TotalDegraded(), s.TotalFailed())
	w.Flush()

	for _, me := range s.MemberErrors {
		fmt.Printf("listing failed for %s: %v\n", me.Member.Email, me.Err)
	}
	if downloadOnly {
		fmt.Printf("files saved to: %s\n", downloadDir)
	}
	fmt.Printf("duration: %s\n", s.Duration.Round(time.Millisecond))
}
