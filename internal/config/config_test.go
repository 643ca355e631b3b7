package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ZOOM_ACCOUNT_ID", "acct-1")
	t.Setenv("ZOOM_CLIENT_ID", "zoom-client")
	t.Setenv("ZOOM_CLIENT_SECRET", "zoom-secret")
	t.Setenv("ZOOM_GROUP_ID", "grp-1")
	t.Setenv("SP_TENANT_ID", "tenant-1")
	t.Setenv("SP_CLIENT_ID", "sp-client")
	t.Setenv("SP_CLIENT_SECRET", "sp-secret")
	t.Setenv("SP_SITE_URL", "https://contoso.sharepoint.com/sites/recordings")
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	setCredentialEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.zoom.us/v2", cfg.Zoom.BaseURL)
	assert.Equal(t, "ZoomVideo", cfg.SharePoint.VideoLibrary)
	assert.Equal(t, "ZoomAudio", cfg.SharePoint.AudioLibrary)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 300, cfg.API.PageSize)
	assert.Equal(t, 3, cfg.API.Retry.MaxAttempts)
	assert.Equal(t, "./downloads", cfg.Transfer.DownloadDir)
	assert.Equal(t, 100*time.Millisecond, cfg.Transfer.MemberDelay)
	assert.Equal(t, int64(4*1024*1024), cfg.Transfer.SmallFileThreshold)
	assert.Equal(t, int64(10*1024*1024), cfg.Transfer.ChunkSize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverlaysCredentials(t *testing.T) {
	setCredentialEnv(t)
	t.Setenv("SP_VIDEO_LIBRARY", "Recordings")
	t.Setenv("DOWNLOAD_DIR", "/tmp/media")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "acct-1", cfg.Zoom.AccountID)
	assert.Equal(t, "grp-1", cfg.Zoom.GroupID)
	assert.Equal(t, "Recordings", cfg.SharePoint.VideoLibrary)
	assert.Equal(t, "/tmp/media", cfg.Transfer.DownloadDir)
}

func TestLoad_FileWithEnvExpansion(t *testing.T) {
	setCredentialEnv(t)
	t.Setenv("MEDIA_DIR", "/srv/media")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  timeout: 10s
  page_size: 50
  retry:
    max_attempts: 5
transfer:
  download_dir: ${MEDIA_DIR}/downloads
  member_delay: 250ms
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 50, cfg.API.PageSize)
	assert.Equal(t, 5, cfg.API.Retry.MaxAttempts)
	assert.Equal(t, "/srv/media/downloads", cfg.Transfer.DownloadDir)
	assert.Equal(t, 250*time.Millisecond, cfg.Transfer.MemberDelay)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Untouched tunables still default.
	assert.Equal(t, 30*time.Second, cfg.API.Retry.MaxBackoff)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transfer: ["), 0o644))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate_ReportsAllMissingVariables(t *testing.T) {
	cfg := &Config{}
	cfg.Zoom.AccountID = "acct-1"

	err := cfg.Validate(false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZOOM_CLIENT_ID")
	assert.Contains(t, err.Error(), "SP_TENANT_ID")
	assert.NotContains(t, err.Error(), "ZOOM_ACCOUNT_ID")
}

func TestValidate_DownloadOnlySkipsSharePoint(t *testing.T) {
	cfg := &Config{}
	cfg.Zoom = ZoomConfig{
		AccountID:    "acct-1",
		ClientID:     "zoom-client",
		ClientSecret: "zoom-secret",
		GroupID:      "grp-1",
	}

	assert.NoError(t, cfg.Validate(true))
	assert.Error(t, cfg.Validate(false), "a full run still needs destination credentials")
}
