// Package contents fetches a document's metadata and full text view
// from the external search service.
package contents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/folianet/foliant/internal/domain"
	"github.com/folianet/foliant/internal/logger"
)

// FallbackMessage replaces the document text when any step of the fetch
// fails. Contents rendering is fail-soft: the reader refreshes instead
// of hitting an error page.
const FallbackMessage = "An error occurred while fetching content, please try to refresh this page."

// Result is the contents view for one document.
type Result struct {
	// Contents is the document's text as served by the search service,
	// or FallbackMessage when the fetch failed.
	Contents string `json:"contents"`
	// Document is the document's metadata record; nil on failure.
	Document map[string]any `json:"document,omitempty"`
	// Failed reports that the fallback message is being served.
	Failed bool `json:"failed,omitempty"`
}

// Service fetches document contents.
type Service struct {
	client UpstreamClient
}

// New creates a contents service.
func New(client UpstreamClient) *Service {
	return &Service{client: client}
}

// Fetch loads the metadata and full text of the named document. It
// never returns an error: any failure yields the fallback result.
func (s *Service) Fetch(ctx context.Context, docName string, id domain.Identity) Result {
	res, err := s.fetch(ctx, docName, id)
	if err != nil {
		logger.FromContext(ctx).Warn("contents fetch failed",
			zap.String("doc", docName),
			zap.Error(err),
		)
		return Result{Contents: FallbackMessage, Failed: true}
	}
	return res
}

func (s *Service) fetch(ctx context.Context, docName string, id domain.Identity) (Result, error) {
	params := url.Values{}
	params.Set("docName", docName)
	params.Set("user", id.User)
	params.Set("ip", id.IP)

	raw, err := s.client.Execute(ctx, "document", params)
	if err != nil {
		return Result{}, err
	}

	// The document command answers with an array of metadata records;
	// the first one describes the requested document.
	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		return Result{}, fmt.Errorf("decode document response: %w", err)
	}
	if len(docs) == 0 {
		return Result{}, fmt.Errorf("document %s: empty metadata response", docName)
	}

	text, err := s.client.ExecuteText(ctx, "contents", params)
	if err != nil {
		return Result{}, err
	}

	return Result{Contents: text, Document: docs[0]}, nil
}
