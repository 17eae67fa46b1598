package goodreads

import "fmt"

// GenreSlots is the fixed number of genre columns the library store
// persists; shorter genre lists are padded with empty strings.
const GenreSlots = 4

// Sentinel values used when a field cannot be extracted from a detail
// page. They are ordinary values, 0/0.0/"" mean "unknown" by convention.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
	NoDescription = "No description available"
)

// Book is one fully extracted record. It is assembled in a single pass
// per detail page and never mutated after being returned.
type Book struct {
	Title         string
	Author        string
	Year          int
	Pages         int
	Rating        float64
	Genres        [GenreSlots]string
	Description   string
	CoverImageURL string
	// SourceURL is the exact detail-page url that was fetched, not one
	// re-derived from page content.
	SourceURL string
}

type ErrorCause string

const (
	ErrNoResults ErrorCause = "no results"
	ErrNetwork   ErrorCause = "network error"
	ErrScraping  ErrorCause = "scraping error"
)

// SearchError is the only error kind Search fails with. Per-candidate
// and per-field failures never surface as errors.
type SearchError struct {
	Cause ErrorCause
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	if e.Cause == ErrNoResults {
		return fmt.Sprintf("no results found for %q", e.Query)
	}
	return fmt.Sprintf("%s: %s", e.Cause, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}
