package search

import (
	"strconv"

	"github.com/folianet/foliant/internal/domain/results"
)

// buildPageLinks derives the pagination bar for the current zero-based
// page given the last reachable zero-based page. The numbered window
// spans [page-3, page+3] clamped to [0, lastPage], at most 7 entries;
// an ellipsis marks each side the clamp hides. Targets are one-based.
func buildPageLinks(page, lastPage int) []results.PageLink {
	startPage := page - 3
	if startPage < 0 {
		startPage = 0
	}
	endPage := startPage + 6
	if endPage > lastPage {
		endPage = lastPage
	}

	links := []results.PageLink{
		{Label: "first", Target: 1, Active: true, Kind: results.LinkFirst},
		{Label: "prev", Target: page, Active: page > 0, Kind: results.LinkPrev},
	}

	if startPage > 0 {
		links = append(links, results.PageLink{Label: "..", Kind: results.LinkEllipsis})
	}

	for i := startPage; i <= endPage; i++ {
		links = append(links, results.PageLink{
			Label:  strconv.Itoa(i + 1),
			Target: i + 1,
			Active: i != page,
			Kind:   results.LinkPage,
		})
	}

	if endPage < lastPage {
		links = append(links, results.PageLink{Label: "..", Kind: results.LinkEllipsis})
	}

	links = append(links,
		results.PageLink{Label: "next", Target: page + 2, Active: page < lastPage, Kind: results.LinkNext},
		results.PageLink{Label: "last", Target: lastPage + 1, Active: true, Kind: results.LinkLast},
	)

	return links
}
