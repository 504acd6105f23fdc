// Package search aggregates external search-service responses into one
// presentation page: it executes the search command, computes the
// result window and page-link navigation, and enriches each hit with
// snippet text and derived image links.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/folianet/foliant/internal/domain"
	"github.com/folianet/foliant/internal/domain/query"
	"github.com/folianet/foliant/internal/domain/results"
)

// Service coordinates the search and snippets commands for one request.
type Service struct {
	client     UpstreamClient
	readOnline bool
	pageURL    string
	pages      domain.PageTransform
}

// New creates a search service.
func New(client UpstreamClient) *Service {
	return &Service{client: client, pages: domain.IdentityPages}
}

// WithReadOnline enables "read online" snippet links. pageURL is a
// template with a document-name verb (%s) and a page-number verb (%d);
// pages is the corpus page-number transform.
func (s *Service) WithReadOnline(pageURL string, pages domain.PageTransform) *Service {
	s.readOnline = true
	s.pageURL = pageURL
	if pages != nil {
		s.pages = pages
	}
	return s
}

// Search runs the full aggregation pipeline. An empty/default query
// returns an empty page without touching the search service. A query
// the service cannot parse propagates as *domain.QueryParseError; any
// transport failure aborts the whole operation with no partial result.
func (s *Service) Search(
	ctx context.Context, desc query.Descriptor, prefs domain.Preferences, id domain.Identity,
) (*results.Page, error) {
	if !desc.IsSearch() {
		return &results.Page{}, nil
	}

	raw, err := s.client.Execute(ctx, "search", searchParams(desc, prefs, id))
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w: %w", domain.ErrUpstreamUnreachable, err)
	}

	page := &results.Page{
		TotalHits:  resp.TotalHits,
		MaxResults: resp.MaxResults,
		Highlights: resp.Highlights,
		Documents:  docsFromResponse(resp.Results),
	}

	if len(page.Documents) == 0 {
		return page, nil
	}

	reachable := resp.TotalHits
	if resp.MaxResults < reachable {
		reachable = resp.MaxResults
	}
	if reachable <= 0 {
		// Degenerate cap from the service; nothing beyond this page is
		// addressable, so no navigation is produced.
		return page, nil
	}

	page.Start = desc.Page*prefs.ResultsPerPage + 1
	page.End = page.Start + prefs.ResultsPerPage - 1
	if page.End > reachable {
		page.End = reachable
	}

	lastPage := (reachable - 1) / prefs.ResultsPerPage
	page.PageLinks = buildPageLinks(desc.Page, lastPage)

	if resp.Highlights {
		if err := s.loadSnippets(ctx, desc, prefs, id, page); err != nil {
			return nil, err
		}
	}

	return page, nil
}

// BookCount returns the total number of books in the corpus.
func (s *Service) BookCount(ctx context.Context, id domain.Identity) (int, error) {
	params := url.Values{}
	params.Set("user", id.User)
	params.Set("ip", id.IP)

	raw, err := s.client.Execute(ctx, "bookCount", params)
	if err != nil {
		return 0, err
	}

	var resp struct {
		BookCount int `json:"bookCount"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("decode bookCount response: %w: %w", domain.ErrUpstreamUnreachable, err)
	}
	return resp.BookCount, nil
}

// loadSnippets issues the snippets command for every document on the
// page and merges the per-document payloads back. A snippetError entry
// marks only its own document; a transport failure aborts the search.
func (s *Service) loadSnippets(
	ctx context.Context, desc query.Descriptor, prefs domain.Preferences,
	id domain.Identity, page *results.Page,
) error {
	ids := make([]string, len(page.Documents))
	for i, doc := range page.Documents {
		ids[i] = strconv.Itoa(doc.DocID)
	}

	params := url.Values{}
	params.Set("docIds", strings.Join(ids, ","))
	params.Set("snippetCount", strconv.Itoa(prefs.SnippetsPerDoc))
	params.Set("query", desc.FreeText)
	params.Set("user", id.User)
	params.Set("ip", id.IP)
	if desc.Strict {
		params.Set("expand", "false")
	}

	raw, err := s.client.Execute(ctx, "snippets", params)
	if err != nil {
		return err
	}

	var snippetMap map[string]snippetEntry
	if err := json.Unmarshal(raw, &snippetMap); err != nil {
		return fmt.Errorf("decode snippets response: %w: %w", domain.ErrUpstreamUnreachable, err)
	}

	for i := range page.Documents {
		doc := &page.Documents[i]
		entry, ok := snippetMap[strconv.Itoa(doc.DocID)]
		if !ok {
			continue
		}
		if entry.SnippetError != nil {
			doc.SnippetError = *entry.SnippetError
			continue
		}
		doc.Snippets = s.buildSnippets(entry.Snippets, doc.Name, id)
	}
	return nil
}

// buildSnippets strips the text field from each raw snippet, derives
// the image URL from the remaining payload, and, when read-online mode
// is on, the external viewer URL for the snippet's page.
func (s *Service) buildSnippets(rawSnippets []map[string]any, docName string, id domain.Identity) []results.Snippet {
	snippets := make([]results.Snippet, 0, len(rawSnippets))
	for _, sm := range rawSnippets {
		text, _ := sm["text"].(string)
		delete(sm, "text")

		pageIndex := intField(sm, "pageIndex")

		stripped, err := json.Marshal(sm)
		if err != nil {
			continue
		}

		snippet := results.Snippet{
			Text:      text,
			PageIndex: pageIndex,
			ImageURL:  s.client.ImageSnippetURL(stripped, id.User),
		}
		if s.readOnline {
			snippet.ReadOnlineURL = fmt.Sprintf(s.pageURL, docName, s.pages(pageIndex))
		}
		snippets = append(snippets, snippet)
	}
	return snippets
}

// searchParams maps a descriptor onto the search command's wire
// parameters. Absent fields are omitted; strict mode rides as
// expand=false; year sorts ride as sortBy=Year plus a direction flag.
func searchParams(desc query.Descriptor, prefs domain.Preferences, id domain.Identity) url.Values {
	params := url.Values{}
	params.Set("query", desc.FreeText)
	params.Set("user", id.User)
	params.Set("ip", id.IP)
	params.Set("page", strconv.Itoa(desc.Page))
	params.Set("resultsPerPage", strconv.Itoa(prefs.ResultsPerPage))
	params.Set("authorInclude", strconv.FormatBool(desc.AuthorInclude))

	if len(desc.Authors) > 0 {
		params.Set("authors", desc.AuthorQuery())
	}
	if desc.Title != "" {
		params.Set("title", desc.Title)
	}
	if desc.Strict {
		params.Set("expand", "false")
	}
	if desc.FromYear != "" {
		params.Set("fromYear", desc.FromYear)
	}
	if desc.ToYear != "" {
		params.Set("toYear", desc.ToYear)
	}
	if desc.Reference != "" {
		params.Set("reference", desc.Reference)
	}

	switch desc.Sort {
	case query.YearAsc:
		params.Set("sortBy", "Year")
		params.Set("sortAscending", "true")
	case query.YearDesc:
		params.Set("sortBy", "Year")
		params.Set("sortAscending", "false")
	}

	return params
}

type searchResponse struct {
	TotalHits  int            `json:"totalHits"`
	MaxResults int            `json:"maxResults"`
	Highlights bool           `json:"highlights"`
	Results    []searchResult `json:"results"`
}

type searchResult struct {
	Doc map[string]any `json:"doc"`
}

type snippetEntry struct {
	SnippetError *string          `json:"snippetError"`
	Snippets     []map[string]any `json:"snippets"`
}

// docsFromResponse converts raw result documents into the presentation
// model, keeping unrecognized metadata as display fields.
func docsFromResponse(raw []searchResult) []results.Document {
	if len(raw) == 0 {
		return nil
	}
	docs := make([]results.Document, 0, len(raw))
	for _, r := range raw {
		doc := results.Document{
			DocID:  intField(r.Doc, "docId"),
			Fields: make(map[string]string),
		}
		doc.Name, _ = r.Doc["name"].(string)

		for k, v := range r.Doc {
			if k == "docId" || k == "name" {
				continue
			}
			if s, ok := stringifyField(v); ok {
				doc.Fields[k] = s
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	default:
		return 0
	}
}

func stringifyField(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
