// Package query turns raw user-supplied search parameters into a
// canonical descriptor. Malformed input degrades to "absent" rather
// than erroring; the search service itself validates semantics.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Sort is the result ordering requested by the user.
type Sort int

const (
	// Relevance is the default ranking order.
	Relevance Sort = iota
	// YearAsc sorts by publication year, oldest first.
	YearAsc
	// YearDesc sorts by publication year, newest first.
	YearDesc
)

// Descriptor is the canonical form of one search request.
type Descriptor struct {
	FreeText      string
	Authors       []string
	AuthorInclude bool
	Title         string
	FromYear      string
	ToYear        string
	Reference     string
	Strict        bool
	Sort          Sort
	// Page is the zero-based result page. The external interface is
	// one-based; anything at or below zero after conversion clamps to 0.
	Page int
}

// Normalize parses raw query parameters into a Descriptor.
func Normalize(raw url.Values) Descriptor {
	d := Descriptor{
		FreeText:      strings.TrimSpace(raw.Get("query")),
		Title:         strings.TrimSpace(raw.Get("title")),
		Reference:     strings.TrimSpace(raw.Get("reference")),
		FromYear:      raw.Get("fromYear"),
		ToYear:        raw.Get("toYear"),
		AuthorInclude: true,
		Authors:       splitAuthors(raw["author"]),
	}

	if _, ok := raw["strict"]; ok {
		d.Strict = true
	}
	if v, ok := raw["authorInclude"]; ok && len(v) > 0 {
		d.AuthorInclude = v[0] == "true"
	}

	switch raw.Get("sortBy") {
	case "yearAsc":
		d.Sort = YearAsc
	case "yearDesc":
		d.Sort = YearDesc
	}

	if p, err := strconv.Atoi(raw.Get("page")); err == nil {
		d.Page = p - 1
	}
	if d.Page < 0 {
		d.Page = 0
	}

	return d
}

// IsSearch reports whether the descriptor carries any search criteria.
// A default/empty request never reaches the search service.
func (d Descriptor) IsSearch() bool {
	return d.FreeText != "" || len(d.Authors) > 0 || d.Title != "" ||
		d.FromYear != "" || d.ToYear != "" || d.Reference != ""
}

// IsAdvanced reports whether the request uses anything beyond plain
// free-text search. Affects UI display only.
func (d Descriptor) IsAdvanced() bool {
	return len(d.Authors) > 0 || d.Title != "" || d.FromYear != "" ||
		d.ToYear != "" || d.Reference != "" || d.Strict || d.Sort != Relevance
}

// AuthorQuery reconstructs the pipe-joined outbound authors parameter.
func (d Descriptor) AuthorQuery() string {
	return strings.Join(d.Authors, "|")
}

// splitAuthors joins repeated author values with "|", collapses
// accidental doubled separators, then splits back into a deduplicated
// ordered set of non-empty tokens.
func splitAuthors(values []string) []string {
	joined := strings.Join(values, "|")
	for strings.Contains(joined, "||") {
		joined = strings.ReplaceAll(joined, "||", "|")
	}

	var authors []string
	seen := make(map[string]struct{})
	for _, a := range strings.Split(joined, "|") {
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		authors = append(authors, a)
	}
	return authors
}
