package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnreachable signals a network or decode failure talking to
	// the search service. Never retried; the whole operation is aborted.
	ErrUpstreamUnreachable = errors.New("search service unreachable")
	// ErrInvalidLanguage signals an unrecognized UI language code.
	ErrInvalidLanguage = errors.New("invalid language code")
	// ErrInvalidPreference signals an out-of-range preference value.
	ErrInvalidPreference = errors.New("invalid preference value")
)

// QueryParseError reports that the search service rejected the query
// syntax. The message is surfaced verbatim to the user as a notice; the
// search is aborted and no results are shown.
type QueryParseError struct {
	Message string
}

func (e *QueryParseError) Error() string {
	return "query parse failed: " + e.Message
}
