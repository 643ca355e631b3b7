package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries everything the run needs. Credentials and identifiers come
// from the environment; tunables come from an optional yaml file with
// environment expansion.
type Config struct {
	Zoom       ZoomConfig       `yaml:"zoom"`
	SharePoint SharePointConfig `yaml:"sharepoint"`
	API        APIConfig        `yaml:"api"`
	Transfer   TransferConfig   `yaml:"transfer"`
	LogLevel   string           `yaml:"log_level"`
}

type ZoomConfig struct {
	AccountID    string `yaml:"account_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	GroupID      string `yaml:"group_id"`
	BaseURL      string `yaml:"base_url"`
}

type SharePointConfig struct {
	TenantID     string `yaml:"tenant_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	SiteURL      string `yaml:"site_url"`
	VideoLibrary string `yaml:"video_library"`
	AudioLibrary string `yaml:"audio_library"`
}

type APIConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	PageSize int           `yaml:"page_size"`
	Retry    RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type TransferConfig struct {
	DownloadDir        string        `yaml:"download_dir"`
	MemberDelay        time.Duration `yaml:"member_delay"`
	SmallFileThreshold int64         `yaml:"small_file_threshold"`
	ChunkSize          int64         `yaml:"chunk_size"`
	ChunkRetries       int           `yaml:"chunk_retries"`
}

// Load reads .env if present, the yaml file if it exists, then overlays the
// credential environment variables.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// Tunables all have defaults; the file is optional.
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg.applyEnv()
	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overlay(&c.Zoom.AccountID, "ZOOM_ACCOUNT_ID")
	overlay(&c.Zoom.ClientID, "ZOOM_CLIENT_ID")
	overlay(&c.Zoom.ClientSecret, "ZOOM_CLIENT_SECRET")
	overlay(&c.Zoom.GroupID, "ZOOM_GROUP_ID")

	overlay(&c.SharePoint.TenantID, "SP_TENANT_ID")
	overlay(&c.SharePoint.ClientID, "SP_CLIENT_ID")
	overlay(&c.SharePoint.ClientSecret, "SP_CLIENT_SECRET")
	overlay(&c.SharePoint.SiteURL, "SP_SITE_URL")
	overlay(&c.SharePoint.VideoLibrary, "SP_VIDEO_LIBRARY")
	overlay(&c.SharePoint.AudioLibrary, "SP_AUDIO_LIBRARY")

	overlay(&c.Transfer.DownloadDir, "DOWNLOAD_DIR")
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) setDefaults() {
	if c.Zoom.BaseURL == "" {
		c.Zoom.BaseURL = "https://api.zoom.us/v2"
	}
	if c.SharePoint.VideoLibrary == "" {
		c.SharePoint.VideoLibrary = "ZoomVideo"
	}
	if c.SharePoint.AudioLibrary == "" {
		c.SharePoint.AudioLibrary = "ZoomAudio"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.API.PageSize == 0 {
		c.API.PageSize = 300
	}
	if c.API.Retry.MaxAttempts == 0 {
		c.API.Retry.MaxAttempts = 3
	}
	if c.API.Retry.InitialBackoff == 0 {
		c.API.Retry.InitialBackoff = 1 * time.Second
	}
	if c.API.Retry.MaxBackoff == 0 {
		c.API.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Transfer.DownloadDir == "" {
		c.Transfer.DownloadDir = "./downloads"
	}
	if c.Transfer.MemberDelay == 0 {
		c.Transfer.MemberDelay = 100 * time.Millisecond
	}
	if c.Transfer.SmallFileThreshold == 0 {
		c.Transfer.SmallFileThreshold = 4 * 1024 * 1024
	}
	if c.Transfer.ChunkSize == 0 {
		c.Transfer.ChunkSize = 10 * 1024 * 1024
	}
	if c.Transfer.ChunkRetries == 0 {
		c.Transfer.ChunkRetries = 3
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the credential surface. SharePoint settings are only
// required outside download-only mode, which never touches the destination.
func (c *Config) Validate(downloadOnly bool) error {
	type setting struct {
		key   string
		value string
	}

	required := []setting{
		{"ZOOM_ACCOUNT_ID", c.Zoom.AccountID},
		{"ZOOM_CLIENT_ID", c.Zoom.ClientID},
		{"ZOOM_CLIENT_SECRET", c.Zoom.ClientSecret},
		{"ZOOM_GROUP_ID", c.Zoom.GroupID},
	}

	if !downloadOnly {
		required = append(required,
			setting{"SP_TENANT_ID", c.SharePoint.TenantID},
			setting{"SP_CLIENT_ID", c.SharePoint.ClientID},
			setting{"SP_CLIENT_SECRET", c.SharePoint.ClientSecret},
			setting{"SP_SITE_URL", c.SharePoint.SiteURL},
		)
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}
