package zoom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
)

const defaultTokenURL = "https://zoom.us/oauth/token"

// Config holds Zoom client configuration.
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	PageSize     int
	Timeout      time.Duration

	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client talks to the Zoom API with server-to-server OAuth. It caches the
// access token until shortly before expiry.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *slog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// New creates a Zoom client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger.With("client", "zoom"),
	}
}

// ListGroupMembers returns every member of the group, following pagination
// until exhausted.
func (c *Client) ListGroupMembers(ctx context.Context, groupID string) ([]Member, error) {
	var members []Member
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("page_size", fmt.Sprint(c.cfg.PageSize))
		if pageToken != "" {
			params.Set("next_page_token", pageToken)
		}

		var resp membersResponse
		endpoint := fmt.Sprintf("%s/groups/%s/members?%s", c.cfg.BaseURL, groupID, params.Encode())
		if err := c.getJSON(ctx, endpoint, &resp); err != nil {
			return nil, fmt.Errorf("list group members: %w", err)
		}

		members = append(members, resp.Members...)

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return members, nil
}

// ListRecordings returns the user's cloud recordings within the inclusive
// date range. A 404 means the user has no recordings and yields an empty list.
func (c *Client) ListRecordings(ctx context.Context, userID string, from, to time.Time) ([]Meeting, error) {
	var meetings []Meeting
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("from", from.Format("2006-01-02"))
		params.Set("to", to.Format("2006-01-02"))
		params.Set("page_size", fmt.Sprint(c.cfg.PageSize))
		if pageToken != "" {
			params.Set("next_page_token", pageToken)
		}

		var resp recordingsResponse
		endpoint := fmt.Sprintf("%s/users/%s/recordings?%s", c.cfg.BaseURL, url.PathEscape(userID), params.Encode())
		err := c.getJSON(ctx, endpoint, &resp)
		if err != nil {
			if isNotFound(err) {
				return meetings, nil
			}
			return nil, fmt.Errorf("list recordings: %w", err)
		}

		meetings = append(meetings, resp.Meetings...)

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return meetings, nil
}

// DownloadRecording opens a stream for one recording file. The caller owns
// the returned body. The declared length is -1 when the server does not
// report one.
func (c *Client) DownloadRecording(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, statusError(resp.StatusCode)
	}

	return resp.Body, resp.ContentLength, nil
}

// getJSON performs an authenticated GET with bounded retry. Authorization
// and not-found failures are never retried.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	var err error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		err = c.doJSON(ctx, endpoint, out)
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt == c.cfg.MaxAttempts {
			break
		}

		backoff := calculateBackoff(attempt, c.cfg.InitialBackoff, c.cfg.MaxBackoff)
		c.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return err
}

func (c *Client) doJSON(ctx context.Context, endpoint string, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// accessToken returns the cached token, fetching a fresh one when it is
// within five minutes of expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	endpoint := fmt.Sprintf("%s?grant_type=account_credentials&account_id=%s",
		c.cfg.TokenURL, url.QueryEscape(c.cfg.AccountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("acquire token: %w", statusError(resp.StatusCode))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-300) * time.Second)

	return c.token, nil
}

func statusError(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("status %d: %w", code, domain.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("status %d: %w", code, domain.ErrNotFound)
	default:
		return fmt.Errorf("unexpected status: %d", code)
	}
}

func retryable(err error) bool {
	return !isUnauthorized(err) && !isNotFound(err)
}

func isUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func calculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	backoff := initial
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > max {
		backoff = max
	}
	return backoff
}
