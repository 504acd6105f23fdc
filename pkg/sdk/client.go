// Package foliant is the Go client for the foliant search front-end
// API. It speaks the same JSON wire the browser UI uses.
package foliant

import (
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
)

const defaultTimeout = 30 * time.Second

var (
	// ErrUnauthorized reports that the identity header was missing or
	// rejected. Set a user with WithUser.
	ErrUnauthorized = errors.New("foliant: unauthorized")
	// ErrUnavailable reports that the front-end could not reach its
	// search service.
	ErrUnavailable = errors.New("foliant: search service unavailable")
)

// APIError is a structured error answered by the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("foliant: %s (%s, HTTP %d)", e.Message, e.Code, e.StatusCode)
}

// Client talks to a foliant server.
type Client struct {
	baseURL    string
	user       string
	userHeader string
	http       *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("foliant: base URL required")
	}

	cfg := &clientConfig{
		userHeader: "X-Auth-User",
		timeout:    defaultTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		user:       cfg.user,
		userHeader: cfg.userHeader,
		http:       httpClient,
	}, nil
}

// Search runs a search and returns the rendered result page.
func (c *Client) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	params := url.Values{}
	if q.Query != "" {
		params.Set("query", q.Query)
	}
	for _, a := range q.Authors {
		params.Add("author", a)
	}
	if q.ExcludeAuthors {
		params.Set("authorInclude", "false")
	}
	if q.Title != "" {
		params.Set("title", q.Title)
	}
	if q.FromYear != "" {
		params.Set("fromYear", q.FromYear)
	}
	if q.ToYear != "" {
		params.Set("toYear", q.ToYear)
	}
	if q.Reference != "" {
		params.Set("reference", q.Reference)
	}
	if q.Strict {
		params.Set("strict", "true")
	}
	if q.SortBy != "" {
		params.Set("sortBy", string(q.SortBy))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	var result SearchResult
	if err := c.getJSON(ctx, "/api/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Contents fetches a document's metadata and full text.
func (c *Client) Contents(ctx context.Context, docName string) (*Contents, error) {
	if docName == "" {
		return nil, errors.New("foliant: document name required")
	}

	params := url.Values{}
	params.Set("doc", docName)

	var result Contents
	if err := c.getJSON(ctx, "/api/contents", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Preferences returns the caller's effective display preferences.
func (c *Client) Preferences(ctx context.Context) (*Preferences, error) {
	var result Preferences
	if err := c.getJSON(ctx, "/api/preferences", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdatePreferences applies a partial preferences update. Nil fields
// keep their current value.
func (c *Client) UpdatePreferences(ctx context.Context, patch PreferencesPatch) error {
	form := url.Values{}
	if patch.DocsPerPage != nil {
		form.Set("docsPerPage", strconv.Itoa(*patch.DocsPerPage))
	}
	if patch.SnippetsPerDoc != nil {
		form.Set("snippetsPerDoc", strconv.Itoa(*patch.SnippetsPerDoc))
	}
	if patch.Lang != nil {
		form.Set("interfaceLanguage", *patch.Lang)
	}
	return c.postForm(ctx, "/api/preferences", form)
}

// ResetPreferences returns the caller to the system defaults.
func (c *Client) ResetPreferences(ctx context.Context) error {
	form := url.Values{}
	form.Set("action", "default")
	return c.postForm(ctx, "/api/preferences", form)
}

// Keyboard returns the caller's virtual keyboard mapping.
func (c *Client) Keyboard(ctx context.Context) (*Keyboard, error) {
	var result Keyboard
	if err := c.getJSON(ctx, "/api/keyboard", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateKeyboard replaces the caller's keyboard mapping.
func (c *Client) UpdateKeyboard(ctx context.Context, mapping map[string]string, enabled bool) error {
	form := url.Values{}
	for from, to := range mapping {
		form.Add("from", from)
		form.Add("to", to)
	}
	if enabled {
		form.Set("enabled", "true")
	}
	return c.postForm(ctx, "/api/keyboard", form)
}

// ResetKeyboard returns the caller to the default layout.
func (c *Client) ResetKeyboard(ctx context.Context) error {
	form := url.Values{}
	form.Set("action", "default")
	return c.postForm(ctx, "/api/keyboard", form)
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("foliant: build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("foliant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.user != "" {
		req.Header.Set(c.userHeader, c.user)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("foliant: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("foliant: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return apiError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("foliant: decode response: %w", err)
	}
	return nil
}

func apiError(status int, body []byte) error {
	var e struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &e)

	apiErr := &APIError{StatusCode: status, Code: e.Code, Message: e.Message}
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr)
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", ErrUnavailable, apiErr)
	default:
		return apiErr
	}
}
