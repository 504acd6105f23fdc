package foliant

// SortOrder selects the result ordering.
type SortOrder string

const (
	// SortRelevance is the default ranking order.
	SortRelevance SortOrder = ""
	// SortYearAsc orders by publication year, oldest first.
	SortYearAsc SortOrder = "yearAsc"
	// SortYearDesc orders by publication year, newest first.
	SortYearDesc SortOrder = "yearDesc"
)

// SearchQuery describes one search request. Zero values are omitted
// from the wire.
type SearchQuery struct {
	Query   string
	Authors []string
	// ExcludeAuthors inverts the author criterion: match documents NOT
	// by the listed authors.
	ExcludeAuthors bool
	Title          string
	FromYear       string
	ToYear         string
	Reference      string
	// Strict disables inflected-form expansion of the query terms.
	Strict bool
	SortBy SortOrder
	// Page is the one-based result page; zero means the first page.
	Page int
}

// SearchResult is the rendered result page.
type SearchResult struct {
	Query          QueryEcho  `json:"query"`
	AdvancedSearch bool       `json:"advancedSearch"`
	TotalHits      int        `json:"totalHits"`
	MaxResults     int        `json:"maxResults"`
	Start          int        `json:"start"`
	End            int        `json:"end"`
	Results        []Document `json:"results"`
	PageLinks      []PageLink `json:"pageLinks"`
	BookCount      int        `json:"bookCount"`
	// ParseException carries the search service's syntax complaint when
	// the query could not be parsed; the result list is empty then.
	ParseException string `json:"parseException"`
}

// QueryEcho is the normalized request as the server understood it.
type QueryEcho struct {
	Query         string   `json:"query"`
	Authors       []string `json:"authors"`
	AuthorInclude bool     `json:"authorInclude"`
	Title         string   `json:"title"`
	FromYear      string   `json:"fromYear"`
	ToYear        string   `json:"toYear"`
	Reference     string   `json:"reference"`
	Strict        bool     `json:"strict"`
	SortBy        string   `json:"sortBy"`
	Page          int      `json:"page"`
}

// Document is one search hit.
type Document struct {
	DocID        int               `json:"docId"`
	Name         string            `json:"name"`
	Fields       map[string]string `json:"fields"`
	Snippets     []Snippet         `json:"snippets"`
	SnippetError string            `json:"snippetError"`
}

// Snippet is one highlighted passage.
type Snippet struct {
	Text          string `json:"text"`
	PageIndex     int    `json:"pageIndex"`
	ImageURL      string `json:"imageUrl"`
	ReadOnlineURL string `json:"readOnlineUrl"`
}

// PageLink is one entry of the pagination bar.
type PageLink struct {
	Label  string `json:"label"`
	Page   int    `json:"page"`
	Active bool   `json:"active"`
	Kind   string `json:"kind"`
}

// Contents is a document's metadata and full text.
type Contents struct {
	Contents string         `json:"contents"`
	Document map[string]any `json:"document"`
	Failed   bool           `json:"failed"`
}

// Preferences are the caller's display settings.
type Preferences struct {
	DocsPerPage    int    `json:"docsPerPage"`
	SnippetsPerDoc int    `json:"snippetsPerDoc"`
	Lang           string `json:"lang"`
}

// PreferencesPatch is a partial preferences update.
type PreferencesPatch struct {
	DocsPerPage    *int
	SnippetsPerDoc *int
	Lang           *string
}

// Keyboard is the caller's virtual keyboard mapping.
type Keyboard struct {
	Mapping map[string]string `json:"mapping"`
	Enabled bool              `json:"enabled"`
}
