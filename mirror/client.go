package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"zeiterfassung/worklog"
)

const (
	defaultCompanyName = "Zimmerei"
	statusSuccess      = "success"
)

// Error kinds returned by the client. Callers decide whether to log or
// surface them.
var (
	ErrDisabled  = errors.New("remote mirror disabled")
	ErrTransport = errors.New("remote transport failed")
	ErrStatus    = errors.New("remote returned non-success status")
	ErrPayload   = errors.New("remote payload malformed")
	ErrRejected  = errors.New("remote reported failure")
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	CompanyName string
	UserAgent   string
	Timeout     time.Duration
	HTTPClient  httpDoer
	Now         func() time.Time
}

// Client talks to the remote endpoint configured in the settings. The endpoint
// is read per call so a settings change takes effect immediately.
type Client struct {
	companyName string
	userAgent   string
	httpClient  httpDoer
	now         func() time.Time
}

type readResponse struct {
	Status  string          `json:"status"`
	Entries []worklog.Entry `json:"entries"`
	Message string          `json:"message,omitempty"`
}

type writeSettings struct {
	CompanyName string  `json:"companyName"`
	HourlyWage  float64 `json:"hourlyWage"`
}

type writeRequest struct {
	Action      string          `json:"action"`
	Entries     []worklog.Entry `json:"entries"`
	HourlyWage  float64         `json:"hourlyWage"`
	CompanyName string          `json:"companyName"`
	Settings    writeSettings   `json:"settings"`
}

func NewClient(cfg ClientConfig) *Client {
	doer := cfg.HTTPClient
	if doer == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		doer = &http.Client{Timeout: timeout}
	}

	companyName := strings.TrimSpace(cfg.CompanyName)
	if companyName == "" {
		companyName = defaultCompanyName
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		companyName: companyName,
		userAgent:   strings.TrimSpace(cfg.UserAgent),
		httpClient:  doer,
		now:         now,
	}
}

func Enabled(settings worklog.Settings) bool {
	return strings.TrimSpace(settings.ScriptURL) != ""
}

// Pull reads the remote collection. Entries are only returned for a 2xx
// response whose body reports status "success".
func (c *Client) Pull(ctx context.Context, settings worklog.Settings) ([]worklog.Entry, error) {
	endpoint, err := c.readURL(settings)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create read request: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: read request failed: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf(
			"%w: read request failed with status %d: %s",
			ErrStatus,
			resp.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	var payload readResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode read response: %w", ErrPayload, err)
	}
	if payload.Status != statusSuccess {
		return nil, fmt.Errorf("%w: status %q %s", ErrRejected, payload.Status, strings.TrimSpace(payload.Message))
	}
	if payload.Entries == nil {
		payload.Entries = []worklog.Entry{}
	}
	return payload.Entries, nil
}

// Push sends the full collection and the current settings. The response is
// drained and discarded; only a transport failure is reported.
func (c *Client) Push(ctx context.Context, entries []worklog.Entry, settings worklog.Settings) error {
	if !Enabled(settings) {
		return ErrDisabled
	}
	endpoint := strings.TrimSpace(settings.ScriptURL)

	if entries == nil {
		entries = []worklog.Entry{}
	}
	body, err := json.Marshal(writeRequest{
		Action:      "write",
		Entries:     entries,
		HourlyWage:  settings.HourlyWage,
		CompanyName: c.companyName,
		Settings: writeSettings{
			CompanyName: c.companyName,
			HourlyWage:  settings.HourlyWage,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal write request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create write request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setUserAgent(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: write request failed: %w", ErrTransport, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
	return nil
}

func (c *Client) readURL(settings worklog.Settings) (string, error) {
	if !Enabled(settings) {
		return "", ErrDisabled
	}

	parsed, err := url.Parse(strings.TrimSpace(settings.ScriptURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: invalid endpoint %q", ErrTransport, settings.ScriptURL)
	}

	query := parsed.Query()
	query.Set("action", "read")
	query.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (c *Client) setUserAgent(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}
