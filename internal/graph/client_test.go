package graph

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestClient serves the token endpoint and delegates Graph calls to the
// handler. Site and drive listings are answered for every test.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/oauth2/v2.0/token"):
			require.NoError(t, r.ParseForm())
			require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			require.Equal(t, "https://graph.microsoft.com/.default", r.PostForm.Get("scope"))
			require.Equal(t, "client-id", r.PostForm.Get("client_id"))

			json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok-graph", ExpiresIn: 3600})
		case strings.HasPrefix(r.URL.Path, "/sites/contoso.sharepoint.com:"):
			json.NewEncoder(w).Encode(siteResponse{ID: "site-1"})
		case r.URL.Path == "/sites/site-1/drives":
			json.NewEncoder(w).Encode(drivesResponse{Value: []drive{
				{ID: "drive-video", Name: "ZoomVideo"},
				{ID: "drive-audio", Name: "ZoomAudio"},
			}})
		default:
			require.Equal(t, "Bearer tok-graph", r.Header.Get("Authorization"))
			handler(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return New(Config{
		TenantID:       "tenant-1",
		ClientID:       "client-id",
		ClientSecret:   "client-secret",
		SiteURL:        "https://contoso.sharepoint.com/sites/recordings",
		GraphURL:       srv.URL,
		LoginURL:       srv.URL,
		Timeout:        5 * time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, testLogger())
}

func TestResolveDrive_MatchesLibraryByName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
	})

	id, err := client.ResolveDrive(context.Background(), "ZoomAudio")

	require.NoError(t, err)
	assert.Equal(t, "drive-audio", id)

	// The second lookup is served from cache; no further requests happen.
	id, err = client.ResolveDrive(context.Background(), "ZoomAudio")
	require.NoError(t, err)
	assert.Equal(t, "drive-audio", id)
}

func TestResolveDrive_UnknownLibraryIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
	})

	_, err := client.ResolveDrive(context.Background(), "Missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEnsureFolder_CreatesEachSegment(t *testing.T) {
	var paths []string
	var names []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		names = append(names, body["name"].(string))
		require.Equal(t, "fail", body["@microsoft.graph.conflictBehavior"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(driveItem{ID: "folder-" + body["name"].(string)})
	})

	err := client.EnsureFolder(context.Background(), "drive-video", "2025/12 - December/2025-12-03")

	require.NoError(t, err)
	assert.Equal(t, []string{"2025", "12 - December", "2025-12-03"}, names)
	require.Len(t, paths, 3)
	assert.Equal(t, "/drives/drive-video/root/children", paths[0])
	assert.Contains(t, paths[1], "/root:/2025:/children")
}

func TestEnsureFolder_ExistingSegmentIsTolerated(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		// Every segment already exists.
		w.WriteHeader(http.StatusConflict)
	})

	err := client.EnsureFolder(context.Background(), "drive-video", "2025/12 - December/2025-12-03")

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestEnsureFolder_ServerErrorFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.EnsureFolder(context.Background(), "drive-video", "2025")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `create folder "2025"`)
}

func TestUploadSmall_PutsContentAndReturnsItemID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		assert.Contains(t, r.URL.Path, "/drives/drive-video/root:/")
		assert.True(t, strings.HasSuffix(r.URL.Path, ":/content"))

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(driveItem{ID: "item-1"})
	})

	id, err := client.UploadSmall(context.Background(), "drive-video",
		"2025/12 - December/2025-12-03", "clip.mp4", []byte("payload"))

	require.NoError(t, err)
	assert.Equal(t, "item-1", id)
}

func TestCreateUploadSession_ReturnsUploadURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":/createUploadSession"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		item := body["item"].(map[string]any)
		assert.Equal(t, "rename", item["@microsoft.graph.conflictBehavior"])

		json.NewEncoder(w).Encode(uploadSession{UploadURL: "https://upload.example.com/session-1"})
	})

	uploadURL, err := client.CreateUploadSession(context.Background(), "drive-video",
		"2025/12 - December/2025-12-03", "clip.mp4")

	require.NoError(t, err)
	assert.Equal(t, "https://upload.example.com/session-1", uploadURL)
}

func TestUploadChunk_SendsContentRange(t *testing.T) {
	var ranges []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		// The session URL is pre-authorized; no bearer token travels with it.
		require.Empty(t, r.Header.Get("Authorization"))
		ranges = append(ranges, r.Header.Get("Content-Range"))

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		if strings.HasPrefix(r.Header.Get("Content-Range"), "bytes 10-") {
			require.Equal(t, "fghij", string(data))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(driveItem{ID: "item-1"})
			return
		}
		require.Equal(t, "abcdefghij", string(data))
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	client := New(Config{Timeout: 5 * time.Second}, testLogger())
	ctx := context.Background()

	id, err := client.UploadChunk(ctx, srv.URL, 0, 9, 15, []byte("abcdefghij"))
	require.NoError(t, err)
	assert.Empty(t, id, "intermediate chunks return no item ID")

	id, err = client.UploadChunk(ctx, srv.URL, 10, 14, 15, []byte("fghij"))
	require.NoError(t, err)
	assert.Equal(t, "item-1", id)

	assert.Equal(t, []string{"bytes 0-9/15", "bytes 10-14/15"}, ranges)
}

func TestSetFields_PatchesListItemColumns(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/drives/drive-video/items/item-1/listItem/fields", r.URL.Path)

		var fields map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "100", fields["MeetingID"])
		assert.Equal(t, "host@example.com", fields["Host"])

		json.NewEncoder(w).Encode(map[string]any{})
	})

	err := client.SetFields(context.Background(), "drive-video", "item-1", map[string]string{
		"MeetingID":      "100",
		"Host":           "host@example.com",
		"RecordingStart": "2025-12-03T10:00:00Z",
	})

	require.NoError(t, err)
}

func TestSetFields_FailureSurfacesStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	err := client.SetFields(context.Background(), "drive-video", "item-1", map[string]string{"MeetingID": "100"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "set fields")
}
