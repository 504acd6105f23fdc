package domain

import "fmt"

// PageTransform converts an internal zero-based page index into the
// page number used by an external "read online" viewer. Different
// corpora number their pages differently, so the transform is injected
// configuration rather than a hard-coded branch.
type PageTransform func(pageIndex int) int

// IdentityPages returns the page index unchanged.
func IdentityPages(pageIndex int) int { return pageIndex }

// OneBasedPages shifts the page index to one-based numbering.
func OneBasedPages(pageIndex int) int { return pageIndex + 1 }

// PageTransformByName resolves a configured transform name.
func PageTransformByName(name string) (PageTransform, error) {
	switch name {
	case "", "identity":
		return IdentityPages, nil
	case "one_based":
		return OneBasedPages, nil
	default:
		return nil, fmt.Errorf("unknown page numbering %q", name)
	}
}
