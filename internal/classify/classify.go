// Package classify maps a recording item to its destination library, folder
// path, and file name. Everything here is a pure function of the item, so the
// same item always produces the same target.
package classify

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
)

// Libraries names the two destination containers.
type Libraries struct {
	Video string
	Audio string
}

// Target resolves the destination for an item. Unknown extensions are
// rejected: silently routing a file to the wrong library is worse than
// failing the item.
func Target(item domain.RecordingItem, libs Libraries) (domain.DestinationTarget, error) {
	kind, ok := domain.KindForExtension(item.Extension)
	if !ok {
		return domain.DestinationTarget{}, &domain.ClassificationError{Extension: item.Extension}
	}

	var library string
	switch kind {
	case domain.KindVideo:
		library = libs.Video
	case domain.KindAudio, domain.KindTranscript:
		library = libs.Audio
	}

	return domain.DestinationTarget{
		Library:  library,
		Folder:   FolderPath(item.StartTime),
		FileName: FileName(item),
	}, nil
}

// FolderPath builds the date hierarchy from the recording's own start time,
// so late transfers still land on the date the meeting occurred.
// Example: 2025/12 - December/2025-12-01
func FolderPath(start time.Time) string {
	return fmt.Sprintf("%04d/%02d - %s/%s",
		start.Year(),
		int(start.Month()),
		start.Month().String(),
		start.Format("2006-01-02"),
	)
}

// FileName builds the deterministic artifact name:
// {date}_{sanitized topic}_{recording type}.{extension}
func FileName(item domain.RecordingItem) string {
	return fmt.Sprintf("%s_%s_%s.%s",
		item.StartTime.Format("2006-01-02"),
		SanitizeTopic(item.Topic),
		item.RecordingType,
		item.Extension,
	)
}

// SanitizeTopic strips path-unsafe characters from a meeting topic. Path
// separators become dashes; everything outside letters, digits, spaces,
// dashes, and underscores is dropped.
func SanitizeTopic(topic string) string {
	topic = strings.ReplaceAll(topic, "/", "-")
	topic = strings.ReplaceAll(topic, "\\", "-")

	var b strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
