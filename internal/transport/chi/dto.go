package chi

import (
	"github.com/folianet/foliant/internal/domain/query"
	"github.com/folianet/foliant/internal/domain/results"
)

// errorResponse is the JSON error body for all API failures.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeBadRequest          = "bad_request"
	codeUnauthorized        = "unauthorized"
	codeNotFound            = "not_found"
	codeValidationFailed    = "validation_failed"
	codeUpstreamUnavailable = "upstream_unavailable"
	codeInternalError       = "internal_error"
)

// searchResponse is the full presentation model for one search render.
type searchResponse struct {
	Query          queryEcho          `json:"query"`
	AdvancedSearch bool               `json:"advancedSearch"`
	TotalHits      int                `json:"totalHits"`
	MaxResults     int                `json:"maxResults"`
	Start          int                `json:"start,omitempty"`
	End            int                `json:"end,omitempty"`
	Results        []documentResponse `json:"results"`
	PageLinks      []pageLinkResponse `json:"pageLinks,omitempty"`
	BookCount      int                `json:"bookCount"`
	ParseException string             `json:"parseException,omitempty"`
}

// queryEcho mirrors the normalized request back so the UI can restore
// its form state. Page is one-based on the wire.
type queryEcho struct {
	Query         string   `json:"query"`
	Authors       []string `json:"authors,omitempty"`
	AuthorInclude bool     `json:"authorInclude"`
	Title         string   `json:"title,omitempty"`
	FromYear      string   `json:"fromYear,omitempty"`
	ToYear        string   `json:"toYear,omitempty"`
	Reference     string   `json:"reference,omitempty"`
	Strict        bool     `json:"strict,omitempty"`
	SortBy        string   `json:"sortBy,omitempty"`
	Page          int      `json:"page"`
}

type documentResponse struct {
	DocID        int               `json:"docId"`
	Name         string            `json:"name"`
	Fields       map[string]string `json:"fields,omitempty"`
	Snippets     []snippetResponse `json:"snippets,omitempty"`
	SnippetError string            `json:"snippetError,omitempty"`
}

type snippetResponse struct {
	Text          string `json:"text"`
	PageIndex     int    `json:"pageIndex"`
	ImageURL      string `json:"imageUrl"`
	ReadOnlineURL string `json:"readOnlineUrl,omitempty"`
}

type pageLinkResponse struct {
	Label  string `json:"label"`
	Page   int    `json:"page"`
	Active bool   `json:"active"`
	Kind   string `json:"kind"`
}

// preferencesResponse matches the legacy preference wire names.
type preferencesResponse struct {
	DocsPerPage    int    `json:"docsPerPage"`
	SnippetsPerDoc int    `json:"snippetsPerDoc"`
	Lang           string `json:"lang"`
}

type keyboardResponse struct {
	Mapping map[string]string `json:"mapping"`
	Enabled bool              `json:"enabled"`
}

type resultResponse struct {
	Result string `json:"result"`
}

func echoQuery(d query.Descriptor) queryEcho {
	e := queryEcho{
		Query:         d.FreeText,
		Authors:       d.Authors,
		AuthorInclude: d.AuthorInclude,
		Title:         d.Title,
		FromYear:      d.FromYear,
		ToYear:        d.ToYear,
		Reference:     d.Reference,
		Strict:        d.Strict,
		Page:          d.Page + 1,
	}
	switch d.Sort {
	case query.YearAsc:
		e.SortBy = "yearAsc"
	case query.YearDesc:
		e.SortBy = "yearDesc"
	}
	return e
}

func pageToResponse(p *results.Page) ([]documentResponse, []pageLinkResponse) {
	docs := make([]documentResponse, len(p.Documents))
	for i, d := range p.Documents {
		docs[i] = documentResponse{
			DocID:        d.DocID,
			Name:         d.Name,
			Fields:       d.Fields,
			SnippetError: d.SnippetError,
		}
		for _, sn := range d.Snippets {
			docs[i].Snippets = append(docs[i].Snippets, snippetResponse{
				Text:          sn.Text,
				PageIndex:     sn.PageIndex,
				ImageURL:      sn.ImageURL,
				ReadOnlineURL: sn.ReadOnlineURL,
			})
		}
	}

	var links []pageLinkResponse
	for _, l := range p.PageLinks {
		links = append(links, pageLinkResponse{
			Label:  l.Label,
			Page:   l.Target,
			Active: l.Active,
			Kind:   string(l.Kind),
		})
	}
	return docs, links
}
