package library

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"bookshelf-backend/lib/bookstore"
	"bookshelf-backend/lib/covers"
	"bookshelf-backend/lib/scrapers/goodreads"
	"bookshelf-backend/lib/textutil"
)

// titles whose normalized forms score at least this are considered a
// fuzzy match
const fuzzyThreshold = 0.85

// Service ties the catalog scraper, the library store and the cover
// folder together into the operations the user-facing surface calls.
type Service struct {
	Scraper  *goodreads.Client
	Store    *bookstore.Store
	CoverDir string
}

func NewService(scraper *goodreads.Client, store *bookstore.Store, coverDir string) Service {
	if coverDir == "" {
		coverDir = covers.DefaultFolder
	}
	return Service{
		Scraper:  scraper,
		Store:    store,
		CoverDir: coverDir,
	}
}

// Search queries the external catalog. Failures surface as the
// scraper's *goodreads.SearchError, whose message is fit to show.
func (s Service) Search(ctx context.Context, query string) ([]goodreads.Book, error) {
	return s.Scraper.Search(ctx, query)
}

// Import saves the book's cover (best effort) and adds the record to
// the library. It reports false when the title is already present;
// a cover fetched for a duplicate is left on disk, pointing at the
// same sanitized filename the existing record already uses.
func (s Service) Import(ctx context.Context, book goodreads.Book) (bool, error) {
	ctx, span := tracer.Start(ctx, "service:Import")
	defer span.End()

	localPath := covers.Save(ctx, book.CoverImageURL, book.Title, s.CoverDir)

	added, err := s.Store.Add(ctx, bookstore.Entry{
		Book:           book,
		LocalImagePath: localPath,
	})
	if err != nil {
		return false, err
	}
	if !added {
		slog.InfoContext(ctx, "book already in library", "title", book.Title)
	}
	return added, nil
}

// Books lists the library in the requested sort order.
func (s Service) Books(ctx context.Context, order bookstore.SortOrder) ([]bookstore.Entry, error) {
	return s.Store.List(ctx, order)
}

// Find looks up library entries whose titles match the query, exact
// substring matches first, then fuzzy ones.
func (s Service) Find(ctx context.Context, query string) ([]bookstore.Entry, error) {
	ctx, span := tracer.Start(ctx, "service:Find")
	defer span.End()

	entries, err := s.Store.List(ctx, bookstore.SortByTitle)
	if err != nil {
		return nil, err
	}

	normalized := textutil.NormalizeName(query)

	type scored struct {
		entry bookstore.Entry
		score float64
	}
	var matches []scored
	for _, entry := range entries {
		title := textutil.NormalizeName(entry.Title)

		score := 0.0
		if strings.Contains(title, normalized) {
			score = 1
		} else {
			score = matchr.JaroWinkler(title, normalized, true)
			if score < fuzzyThreshold {
				continue
			}
		}
		matches = append(matches, scored{entry: entry, score: score})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].score > matches[b].score
	})

	result := make([]bookstore.Entry, len(matches))
	for i, m := range matches {
		result[i] = m.entry
	}
	return result, nil
}

// Remove deletes a library entry and best-effort removes its stored
// cover file.
func (s Service) Remove(ctx context.Context, title string) (bool, error) {
	ctx, span := tracer.Start(ctx, "service:Remove")
	defer span.End()

	entry, ok, err := s.Store.Get(ctx, title)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	removed, err := s.Store.Remove(ctx, title)
	if err != nil {
		return false, err
	}

	if removed && entry.LocalImagePath != "" {
		err := os.Remove(entry.LocalImagePath)
		if err != nil && !os.IsNotExist(err) {
			slog.WarnContext(ctx, "failed to remove cover file",
				"path", entry.LocalImagePath,
				"err", err,
			)
		}
	}
	return removed, nil
}

// MarkRead flips an entry's read flag.
func (s Service) MarkRead(ctx context.Context, title string, read bool) (bool, error) {
	return s.Store.SetRead(ctx, title, read)
}
