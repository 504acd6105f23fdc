// Package results holds the request-scoped presentation model built by
// the search aggregator. Nothing here is persisted: a Page is created
// while handling one request and discarded with it.
package results

// Page is one page of search results plus its navigation model.
type Page struct {
	TotalHits  int
	MaxResults int
	Highlights bool

	// Start and End are the one-based positions of the first and last
	// result shown, within min(TotalHits, MaxResults). Only meaningful
	// when Documents is non-empty.
	Start int
	End   int

	Documents []Document
	PageLinks []PageLink
}

// Document is a single search hit with its display metadata and, once
// fetched, highlight snippets.
type Document struct {
	DocID  int
	Name   string
	Fields map[string]string

	// Snippets is nil until snippet enrichment runs. SnippetError is a
	// per-document soft failure: the document renders an inline notice
	// and receives no snippets, siblings are unaffected.
	Snippets     []Snippet
	SnippetError string
}

// Snippet is one highlighted passage with its derived links.
type Snippet struct {
	Text      string
	PageIndex int
	ImageURL  string
	// ReadOnlineURL is set only when read-online mode is configured.
	ReadOnlineURL string
}

// LinkKind tags the role of a page link.
type LinkKind string

const (
	LinkFirst    LinkKind = "first"
	LinkPrev     LinkKind = "prev"
	LinkEllipsis LinkKind = "ellipsis"
	LinkPage     LinkKind = "page"
	LinkNext     LinkKind = "next"
	LinkLast     LinkKind = "last"
)

// PageLink is one entry of the pagination bar. Target is one-based.
// An inactive link renders as a non-clickable label (the current page,
// a disabled prev/next, or an ellipsis).
type PageLink struct {
	Label  string
	Target int
	Active bool
	Kind   LinkKind
}
