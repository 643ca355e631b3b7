// Package catalog enumerates the recordings to transfer: group membership
// once, then each member's listings within the date range.
package catalog

//go:generate mockgen -source=reader.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
	"github.com/sawtoof/zoom-to-sharepoint/internal/zoom"
)

// SourceClient is the slice of the source platform the catalog needs.
type SourceClient interface {
	ListGroupMembers(ctx context.Context, groupID string) ([]zoom.Member, error)
	ListRecordings(ctx context.Context, userID string, from, to time.Time) ([]zoom.Meeting, error)
}

// Config holds catalog settings.
type Config struct {
	GroupID string
	// MemberDelay is a fixed pause between member listings to stay under
	// upstream rate limits.
	MemberDelay time.Duration
}

// Reader builds the run's item list.
type Reader struct {
	client SourceClient
	cfg    Config
	logger *slog.Logger
}

func NewReader(client SourceClient, cfg Config, logger *slog.Logger) *Reader {
	return &Reader{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "catalog"),
	}
}

// Read resolves the group, lists every member's recordings in [from, to]
// inclusive, and flattens them to deduplicated items in discovery order.
// A member whose listing fails is recorded and skipped; an authorization
// failure aborts, since every remaining call would fail the same way.
func (r *Reader) Read(ctx context.Context, from, to time.Time) (*domain.CatalogResult, error) {
	members, err := r.client.ListGroupMembers(ctx, r.cfg.GroupID)
	if err != nil {
		return nil, fmt.Errorf("resolve group %s: %w", r.cfg.GroupID, err)
	}

	r.logger.Info("resolved group membership", "group_id", r.cfg.GroupID, "members", len(members))

	result := &domain.CatalogResult{}
	seen := make(map[string]struct{})

	for i, member := range members {
		meetings, err := r.client.ListRecordings(ctx, member.ID, from, to)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return nil, fmt.Errorf("list recordings for %s: %w", member.Email, err)
			}
			r.logger.Error("failed to list recordings for member",
				"email", member.Email,
				"error", err,
			)
			result.MemberErrors = append(result.MemberErrors, domain.MemberError{Member: toGroupMember(member), Err: err})
			continue
		}

		count := 0
		for _, meeting := range meetings {
			for _, file := range meeting.RecordingFiles {
				item, ok := r.toItem(member, meeting, file, from, to)
				if !ok {
					continue
				}
				if _, dup := seen[item.NaturalKey()]; dup {
					continue
				}
				seen[item.NaturalKey()] = struct{}{}
				result.Items = append(result.Items, item)
				count++
			}
		}

		r.logger.Info("listed member recordings", "email", member.Email, "items", count)

		if r.cfg.MemberDelay > 0 && i < len(members)-1 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(r.cfg.MemberDelay):
			}
		}
	}

	return result, nil
}

func (r *Reader) toItem(member zoom.Member, meeting zoom.Meeting, file zoom.RecordingFile, from, to time.Time) (domain.RecordingItem, bool) {
	if file.DownloadURL == "" {
		r.logger.Warn("skipping file without download URL",
			"meeting_id", meeting.ID,
			"recording_type", file.RecordingType,
		)
		return domain.RecordingItem{}, false
	}

	start := file.RecordingStart
	if start.IsZero() {
		start = meeting.StartTime
	}

	// The upstream filter is repeated here so a boundary page can never
	// smuggle in an out-of-range item.
	if !withinRange(start, from, to) {
		return domain.RecordingItem{}, false
	}

	host := meeting.HostEmail
	if host == "" {
		host = member.Email
	}

	ext := strings.ToLower(file.FileExtension)

	return domain.RecordingItem{
		Owner:         toGroupMember(member),
		MeetingID:     strconv.FormatInt(meeting.ID, 10),
		Topic:         meeting.Topic,
		HostEmail:     host,
		StartTime:     start,
		RecordingType: file.RecordingType,
		Extension:     ext,
		Size:          file.FileSize,
		DownloadURL:   file.DownloadURL,
	}, true
}

// withinRange compares calendar dates in the timestamp's own location, the
// timezone the source platform reports in.
func withinRange(t, from, to time.Time) bool {
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return !date.Before(fromDate) && !date.After(toDate)
}

func toGroupMember(m zoom.Member) domain.GroupMember {
	return domain.GroupMember{ID: m.ID, Email: m.Email}
}
