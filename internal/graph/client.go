package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sawtoof/zoom-to-sharepoint/internal/domain"
)

const (
	defaultGraphURL = "https://graph.microsoft.com/v1.0"
	defaultLoginURL = "https://login.microsoftonline.com"
)

// Config holds Microsoft Graph client configuration.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	SiteURL      string
	GraphURL     string
	LoginURL     string
	Timeout      time.Duration

	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client talks to SharePoint through Microsoft Graph using the client
// credentials flow. Site and drive lookups are cached for the run.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *slog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	siteID      string
	driveIDs    map[string]string
}

// New creates a Graph client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.GraphURL == "" {
		cfg.GraphURL = defaultGraphURL
	}
	if cfg.LoginURL == "" {
		cfg.LoginURL = defaultLoginURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger.With("client", "graph"),
		driveIDs:   make(map[string]string),
	}
}

// ResolveDrive returns the drive ID for a document library, resolving the
// site from its URL on first use. A library that does not exist on the site
// reports domain.ErrNotFound.
func (c *Client) ResolveDrive(ctx context.Context, library string) (string, error) {
	c.mu.Lock()
	if id, ok := c.driveIDs[library]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	siteID, err := c.resolveSite(ctx)
	if err != nil {
		return "", err
	}

	var drives drivesResponse
	endpoint := fmt.Sprintf("%s/sites/%s/drives", c.cfg.GraphURL, siteID)
	if err := c.getJSON(ctx, endpoint, &drives); err != nil {
		return "", fmt.Errorf("list drives: %w", err)
	}

	for _, d := range drives.Value {
		if d.Name == library {
			c.mu.Lock()
			c.driveIDs[library] = d.ID
			c.mu.Unlock()
			return d.ID, nil
		}
	}

	return "", fmt.Errorf("document library %q: %w", library, domain.ErrNotFound)
}

// EnsureFolder creates every segment of the folder path in order. Segments
// that already exist are a no-op: the API answers 409 and the walk continues.
func (c *Client) EnsureFolder(ctx context.Context, driveID, folder string) error {
	parts := strings.Split(strings.Trim(folder, "/"), "/")

	current := ""
	for _, part := range parts {
		var endpoint string
		if current == "" {
			endpoint = fmt.Sprintf("%s/drives/%s/root/children", c.cfg.GraphURL, driveID)
		} else {
			endpoint = fmt.Sprintf("%s/drives/%s/root:/%s:/children", c.cfg.GraphURL, driveID, escapePath(current))
		}

		body := map[string]any{
			"name":                              part,
			"folder":                            map[string]any{},
			"@microsoft.graph.conflictBehavior": "fail",
		}

		resp, err := c.doJSON(ctx, http.MethodPost, endpoint, body)
		if err != nil {
			return fmt.Errorf("create folder %q: %w", part, err)
		}
		if resp.StatusCode != http.StatusOK &&
			resp.StatusCode != http.StatusCreated &&
			resp.StatusCode != http.StatusConflict {
			resp.Body.Close()
			return fmt.Errorf("create folder %q: %w", part, statusError(resp.StatusCode))
		}
		resp.Body.Close()

		if current == "" {
			current = part
		} else {
			current = current + "/" + part
		}
	}

	return nil
}

// UploadSmall uploads a file in a single request and returns the item ID.
func (c *Client) UploadSmall(ctx context.Context, driveID, folder, name string, data []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/drives/%s/root:/%s:/content",
		c.cfg.GraphURL, driveID, escapePath(itemPath(folder, name)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", statusError(resp.StatusCode)
	}

	var item driveItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return item.ID, nil
}

// CreateUploadSession opens a resumable upload session and returns the
// pre-authorized upload URL.
func (c *Client) CreateUploadSession(ctx context.Context, driveID, folder, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/drives/%s/root:/%s:/createUploadSession",
		c.cfg.GraphURL, driveID, escapePath(itemPath(folder, name)))

	body := map[string]any{
		"item": map[string]any{
			"@microsoft.graph.conflictBehavior": "rename",
			"name":                              name,
		},
	}

	resp, err := c.doJSON(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("create upload session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create upload session: %w", statusError(resp.StatusCode))
	}

	var session uploadSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("decode upload session: %w", err)
	}
	return session.UploadURL, nil
}

// UploadChunk sends one byte range to an open session. Intermediate chunks
// are acknowledged with 202 and return an empty item ID; the final chunk
// returns the stored item's ID. The session URL is pre-authorized, so no
// bearer token is attached.
func (c *Client) UploadChunk(ctx context.Context, uploadURL string, start, end, total int64, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = int64(len(data))
	req.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, total))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		return "", nil
	case http.StatusOK, http.StatusCreated:
		var item driveItem
		if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		return item.ID, nil
	default:
		return "", statusError(resp.StatusCode)
	}
}

// SetFields patches list item columns on an uploaded file.
func (c *Client) SetFields(ctx context.Context, driveID, itemID string, fields map[string]string) error {
	endpoint := fmt.Sprintf("%s/drives/%s/items/%s/listItem/fields", c.cfg.GraphURL, driveID, itemID)

	resp, err := c.doJSON(ctx, http.MethodPatch, endpoint, fields)
	if err != nil {
		return fmt.Errorf("set fields: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("set fields: %w", statusError(resp.StatusCode))
	}
	return nil
}

func (c *Client) resolveSite(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.siteID != "" {
		id := c.siteID
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	// Site URL looks like https://contoso.sharepoint.com/sites/name; Graph
	// addresses it as {hostname}:/{path}.
	trimmed := strings.TrimPrefix(c.cfg.SiteURL, "https://")
	parts := strings.SplitN(trimmed, "/", 2)
	hostname := parts[0]
	sitePath := ""
	if len(parts) > 1 {
		sitePath = "/" + parts[1]
	}

	var site siteResponse
	endpoint := fmt.Sprintf("%s/sites/%s:%s", c.cfg.GraphURL, hostname, sitePath)
	if err := c.getJSON(ctx, endpoint, &site); err != nil {
		return "", fmt.Errorf("resolve site: %w", err)
	}

	c.mu.Lock()
	c.siteID = site.ID
	c.mu.Unlock()
	return site.ID, nil
}

// getJSON performs an authenticated GET with bounded retry.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	var err error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		err = c.doGet(ctx, endpoint, out)
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

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return err
	}

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

// doJSON issues a request with a JSON body and returns the raw response; the
// caller owns the body and interprets the status code.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// accessToken acquires a client-credentials token, cached until shortly
// before expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.cfg.LoginURL, c.cfg.TenantID)
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("scope", "https://graph.microsoft.com/.default")
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
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

func itemPath(folder, name string) string {
	return strings.Trim(folder, "/") + "/" + name
}

// escapePath escapes each path segment while keeping separators.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
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

func isUnauthorized(err error) bool { return errors.Is(err, domain.ErrUnauthorized) }
func isNotFound(err error) bool     { return errors.Is(err, domain.ErrNotFound) }
