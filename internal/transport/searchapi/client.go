// Package searchapi is the outbound client for the external search
// service. Every command is a single HTTP GET with plain key/value
// query parameters; there are no retries anywhere.
package searchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/folianet/foliant/internal/domain"
	"github.com/folianet/foliant/internal/metrics"
)

// Config holds the search-service connection settings.
type Config struct {
	// BaseURL is the server-to-server command endpoint.
	BaseURL string
	// ExternalURL is the publicly reachable endpoint used when deriving
	// snippet image links for the browser. Defaults to BaseURL.
	ExternalURL string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Client issues commands against the external search service.
type Client struct {
	baseURL     string
	externalURL string
	http        *http.Client
	logger      *zap.Logger
}

// NewClient creates a search-service client.
func NewClient(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	externalURL := cfg.ExternalURL
	if externalURL == "" {
		externalURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		externalURL: externalURL,
		http:        httpClient,
		logger:      logger,
	}
}

// Execute issues a JSON command and returns the raw response body.
// A connection failure or non-decodable body maps to
// domain.ErrUpstreamUnreachable; a parseException payload maps to
// *domain.QueryParseError with its message un-escaped (the service
// double-escapes unicode in this one field).
func (c *Client) Execute(ctx context.Context, command string, params url.Values) (json.RawMessage, error) {
	body, err := c.get(ctx, command, params)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		metrics.UpstreamRequestsTotal.WithLabelValues(command, "error").Inc()
		return nil, fmt.Errorf("command %s: invalid response body: %w", command, domain.ErrUpstreamUnreachable)
	}

	if msg, ok := parseExceptionMessage(body); ok {
		metrics.UpstreamParseFailuresTotal.Inc()
		return nil, &domain.QueryParseError{Message: UnescapeUnicode(msg)}
	}

	return json.RawMessage(body), nil
}

// ExecuteText issues a command whose response is raw text (contents).
func (c *Client) ExecuteText(ctx context.Context, command string, params url.Values) (string, error) {
	body, err := c.get(ctx, command, params)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ImageSnippetURL derives the browser-facing URL for a snippet's page
// image. The snippet JSON (with its text field already removed) rides
// along as a single query parameter; the exact URL encoding is part of
// the contract consumers rely on.
func (c *Client) ImageSnippetURL(snippet []byte, user string) string {
	params := url.Values{
		"command": {"imageSnippet"},
		"snippet": {string(snippet)},
		"user":    {user},
	}
	return c.externalURL + "?" + params.Encode()
}

// HealthCheck probes the search service at the connection level. Any
// HTTP response counts as reachable; only a transport failure is an
// error.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) get(ctx context.Context, command string, params url.Values) ([]byte, error) {
	query := url.Values{}
	for k, vs := range params {
		query[k] = vs
	}
	query.Set("command", command)

	reqURL := c.baseURL + "?" + query.Encode()
	c.logger.Debug("sending search-service request",
		zap.String("command", command),
		zap.String("url", c.baseURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("command %s: build request: %w", command, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(command, "error").Inc()
		return nil, fmt.Errorf("command %s: %w: %w", command, domain.ErrUpstreamUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(command, "error").Inc()
		return nil, fmt.Errorf("command %s: read response: %w: %w", command, domain.ErrUpstreamUnreachable, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues(command, "error").Inc()
		return nil, fmt.Errorf("command %s: unexpected status %d: %w",
			command, resp.StatusCode, domain.ErrUpstreamUnreachable)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(command, "success").Inc()
	return body, nil
}

// parseExceptionMessage detects the parse-exception response shape:
// an object carrying a parseException key plus a message.
func parseExceptionMessage(body []byte) (string, bool) {
	if len(body) == 0 || body[0] != '{' {
		return "", false
	}
	var probe struct {
		ParseException json.RawMessage `json:"parseException"`
		Message        string          `json:"message"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", false
	}
	if probe.ParseException == nil {
		return "", false
	}
	return probe.Message, true
}
