package zoom

import "time"

// Member is one account in a Zoom group.
type Member struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type membersResponse struct {
	Members       []Member `json:"members"`
	NextPageToken string   `json:"next_page_token"`
}

// Meeting is one meeting occurrence with its cloud recording files.
type Meeting struct {
	UUID           string          `json:"uuid"`
	ID             int64           `json:"id"`
	Topic          string          `json:"topic"`
	HostEmail      string          `json:"host_email"`
	StartTime      time.Time       `json:"start_time"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// RecordingFile is one artifact of a recorded meeting.
type RecordingFile struct {
	ID             string    `json:"id"`
	RecordingType  string    `json:"recording_type"`
	FileType       string    `json:"file_type"`
	FileExtension  string    `json:"file_extension"`
	FileSize       int64     `json:"file_size"`
	RecordingStart time.Time `json:"recording_start"`
	DownloadURL    string    `json:"download_url"`
}

type recordingsResponse struct {
	Meetings      []Meeting `json:"meetings"`
	NextPageToken string    `json:"next_page_token"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
