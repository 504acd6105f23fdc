package searchapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/folianet/foliant/internal/domain"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&Config{BaseURL: serverURL, Timeout: 2 * time.Second})
}

func TestExecute_SendsCommandAndParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"totalHits": 3}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	params := url.Values{}
	params.Set("query", "der veg")
	params.Set("page", "0")

	raw, err := client.Execute(context.Background(), "search", params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"totalHits": 3}` {
		t.Errorf("unexpected body %s", raw)
	}

	if gotQuery.Get("command") != "search" {
		t.Errorf("command not sent, got %q", gotQuery.Get("command"))
	}
	if gotQuery.Get("query") != "der veg" || gotQuery.Get("page") != "0" {
		t.Errorf("params not forwarded: %v", gotQuery)
	}
}

func TestExecute_ParseException(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// The message field arrives double-escaped: the decoded JSON
		// string still carries a literal backslash-u sequence.
		_, _ = w.Write([]byte(`{"parseException": true, "message": "Cannot parse 'caf\\u00e9'"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Execute(context.Background(), "search", url.Values{})

	var parseErr *domain.QueryParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected QueryParseError, got %v", err)
	}
	if parseErr.Message != "Cannot parse 'café'" {
		t.Errorf("message not unescaped: %q", parseErr.Message)
	}
}

func TestExecute_PlainMessageIsNotParseException(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message": "fine", "totalHits": 0}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Execute(context.Background(), "search", url.Values{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecute_InvalidJSONIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Execute(context.Background(), "search", url.Values{})
	if !errors.Is(err, domain.ErrUpstreamUnreachable) {
		t.Fatalf("expected unreachable error, got %v", err)
	}
}

func TestExecute_Non200IsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Execute(context.Background(), "search", url.Values{})
	if !errors.Is(err, domain.ErrUpstreamUnreachable) {
		t.Fatalf("expected unreachable error, got %v", err)
	}
}

func TestExecute_ConnectionFailureIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.Execute(context.Background(), "search", url.Values{})
	if !errors.Is(err, domain.ErrUpstreamUnreachable) {
		t.Fatalf("expected unreachable error, got %v", err)
	}
}

func TestExecuteText_ReturnsRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("command") != "contents" {
			t.Errorf("unexpected command %q", r.URL.Query().Get("command"))
		}
		_, _ = w.Write([]byte("<div>page text</div>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	text, err := client.ExecuteText(context.Background(), "contents", url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "<div>page text</div>" {
		t.Errorf("unexpected body %q", text)
	}
}

func TestImageSnippetURL(t *testing.T) {
	client := NewClient(&Config{
		BaseURL:     "http://internal:8080/search",
		ExternalURL: "https://search.example.org/search",
	})

	got := client.ImageSnippetURL([]byte(`{"docId":11,"pageIndex":4}`), "chana")

	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("unparseable URL %q: %v", got, err)
	}
	if parsed.Host != "search.example.org" {
		t.Errorf("image URL must use the external endpoint, got %q", got)
	}
	q := parsed.Query()
	if q.Get("command") != "imageSnippet" {
		t.Errorf("unexpected command %q", q.Get("command"))
	}
	if q.Get("snippet") != `{"docId":11,"pageIndex":4}` {
		t.Errorf("snippet payload mangled: %q", q.Get("snippet"))
	}
	if q.Get("user") != "chana" {
		t.Errorf("unexpected user %q", q.Get("user"))
	}
}

func TestImageSnippetURL_DefaultsToBaseURL(t *testing.T) {
	client := NewClient(&Config{BaseURL: "http://internal:8080/search"})
	got := client.ImageSnippetURL([]byte(`{}`), "u")
	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("unparseable URL %q: %v", got, err)
	}
	if parsed.Host != "internal:8080" {
		t.Errorf("expected base URL fallback, got %q", got)
	}
}
