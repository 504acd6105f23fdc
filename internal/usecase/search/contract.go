package search

import (
	"context"
	"encoding/json"
	"net/url"
)

// UpstreamClient issues commands against the external search service.
type UpstreamClient interface {
	Execute(ctx context.Context, command string, params url.Values) (json.RawMessage, error)

	// ImageSnippetURL derives the browser-facing page-image URL for a
	// text-stripped snippet payload.
	ImageSnippetURL(snippet []byte, user string) string
}
