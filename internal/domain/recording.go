package domain

import (
	"fmt"
	"time"
)

// MediaKind classifies a recording artifact by what it contains.
type MediaKind string

const (
	KindVideo      MediaKind = "video"
	KindAudio      MediaKind = "audio"
	KindTranscript MediaKind = "transcript"

	// KindUnknown is a reporting bucket for items whose extension is not in
	// the lookup table. Such items always fail classification.
	KindUnknown MediaKind = "unknown"
)

// extensionKinds is the single extension-to-kind lookup table. Adding support
// for a new file type is an entry here, not a new branch.
var extensionKinds = map[string]MediaKind{
	"mp4": KindVideo,
	"m4a": KindAudio,
	"vtt": KindTranscript,
}

// KindForExtension maps a lowercase file extension to its media kind.
func KindForExtension(ext string) (MediaKind, bool) {
	kind, ok := extensionKinds[ext]
	return kind, ok
}

// GroupMember is one account in the target group.
type GroupMember struct {
	ID    string
	Email string
}

// RecordingItem is one recording artifact discovered by the catalog. It is
// immutable once created.
type RecordingItem struct {
	Owner         GroupMember
	MeetingID     string
	Topic         string
	HostEmail     string
	StartTime     time.Time
	RecordingType string
	Extension     string // lowercase, without the dot
	Size          int64
	DownloadURL   string
}

// Kind returns the item's media kind, or KindUnknown for extensions outside
// the lookup table.
func (r RecordingItem) Kind() MediaKind {
	if kind, ok := KindForExtension(r.Extension); ok {
		return kind
	}
	return KindUnknown
}

// NaturalKey identifies an artifact across paginated listings. Upstream page
// boundaries can overlap, so the catalog keeps a set of these per run.
func (r RecordingItem) NaturalKey() string {
	kind := string(r.Kind())
	if kind == string(KindUnknown) {
		kind = "ext:" + r.Extension
	}
	return fmt.Sprintf("%s|%s|%s", r.MeetingID, kind, r.Extension)
}

// LocalArtifact is a downloaded file on local disk.
type LocalArtifact struct {
	Path string
	Item RecordingItem
	Size int64
}

// DestinationTarget names where an artifact lands on the destination platform.
type DestinationTarget struct {
	Library  string // document library, picked by media kind
	Folder   string // year/"month - name"/date hierarchy
	FileName string
}

// RemotePath is the human-readable full destination path.
func (t DestinationTarget) RemotePath() string {
	return t.Library + "/" + t.Folder + "/" + t.FileName
}

// CatalogResult is everything a catalog pass produced: the deduplicated items
// plus the members whose listings could not be fetched.
type CatalogResult struct {
	Items        []RecordingItem
	MemberErrors []MemberError
}

// MemberError records a member whose listing failed. The run continues with
// the remaining members.
type MemberError struct {
	Member GroupMember
	Err    error
}
