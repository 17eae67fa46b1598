package bookstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"

	"bookshelf-backend/lib/scrapers/goodreads"
)

//go:embed schema.sql
var Schema string

// Entry is one persisted library record: the scraped book plus the
// bookkeeping columns the store manages itself.
type Entry struct {
	goodreads.Book
	LocalImagePath string
	DateAdded      time.Time
	LastModified   time.Time
	Read           bool
}

type SortOrder string

const (
	SortByTitle  SortOrder = "title"
	SortByAuthor SortOrder = "author"
	SortByYear   SortOrder = "year"
	SortByRating SortOrder = "rating"
	SortByAdded  SortOrder = "added"
)

func orderClause(order SortOrder) (string, error) {
	switch order {
	case SortByTitle, "":
		return "title ASC", nil
	case SortByAuthor:
		return "author ASC, title ASC", nil
	case SortByYear:
		return "year DESC, title ASC", nil
	case SortByRating:
		return "rating DESC, title ASC", nil
	case SortByAdded:
		return "date_added DESC, title ASC", nil
	}
	return "", fmt.Errorf("unknown sort order %q", order)
}

type Store struct {
	db *sql.DB
}

func wrapOpen(err error) error {
	return fmt.Errorf("open book store: %w", err)
}

// Open opens (creating if necessary) the library database at path.
// ":memory:" is accepted for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		os.MkdirAll(filepath.Dir(path), 0777)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpen(err)
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, wrapOpen(err)
	}

	_, err = db.Exec(Schema)
	if err != nil {
		return nil, wrapOpen(err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a new entry, stamping both timestamps. It reports false
// without error when the title is already present.
func (s *Store) Add(ctx context.Context, entry Entry) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			title, author, year, pages, rating,
			genre1, genre2, genre3, genre4,
			description, image_url, local_image_path, source_url,
			date_added, last_modified, read
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (title) DO NOTHING`,
		entry.Title, entry.Author, entry.Year, entry.Pages, entry.Rating,
		entry.Genres[0], entry.Genres[1], entry.Genres[2], entry.Genres[3],
		entry.Description, entry.CoverImageURL, entry.LocalImagePath, entry.SourceURL,
		now, now, entry.Read,
	)
	if err != nil {
		return false, fmt.Errorf("add book: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add book: %w", err)
	}
	return inserted > 0, nil
}

const entryColumns = `
	title, author, year, pages, rating,
	genre1, genre2, genre3, genre4,
	description, image_url, local_image_path, source_url,
	date_added, last_modified, read`

func scanEntry(row interface{ Scan(...any) error }) (Entry, error) {
	var entry Entry
	var added, modified string
	err := row.Scan(
		&entry.Title, &entry.Author, &entry.Year, &entry.Pages, &entry.Rating,
		&entry.Genres[0], &entry.Genres[1], &entry.Genres[2], &entry.Genres[3],
		&entry.Description, &entry.CoverImageURL, &entry.LocalImagePath, &entry.SourceURL,
		&added, &modified, &entry.Read,
	)
	if err != nil {
		return Entry{}, err
	}
	entry.DateAdded, _ = time.Parse(time.RFC3339, added)
	entry.LastModified, _ = time.Parse(time.RFC3339, modified)
	return entry, nil
}

func (s *Store) List(ctx context.Context, order SortOrder) ([]Entry, error) {
	clause, err := orderClause(order)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		fmt.Sprintf("SELECT %s FROM books ORDER BY %s", entryColumns, clause),
	)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Get looks an entry up by its exact title. The second return value
// reports whether it exists.
func (s *Store) Get(ctx context.Context, title string) (Entry, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		fmt.Sprintf("SELECT %s FROM books WHERE title = ?", entryColumns),
		title,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get book: %w", err)
	}
	return entry, true, nil
}

// Update replaces an entry's stored fields and bumps its modification
// timestamp; date_added is left alone. It reports false when no entry
// with that title exists.
func (s *Store) Update(ctx context.Context, entry Entry) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			author = ?, year = ?, pages = ?, rating = ?,
			genre1 = ?, genre2 = ?, genre3 = ?, genre4 = ?,
			description = ?, image_url = ?, local_image_path = ?, source_url = ?,
			last_modified = ?, read = ?
		WHERE title = ?`,
		entry.Author, entry.Year, entry.Pages, entry.Rating,
		entry.Genres[0], entry.Genres[1], entry.Genres[2], entry.Genres[3],
		entry.Description, entry.CoverImageURL, entry.LocalImagePath, entry.SourceURL,
		now, entry.Read,
		entry.Title,
	)
	if err != nil {
		return false, fmt.Errorf("update book: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update book: %w", err)
	}
	return updated > 0, nil
}

// SetRead flips the read flag, bumping the modification timestamp.
func (s *Store) SetRead(ctx context.Context, title string, read bool) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := s.db.ExecContext(
		ctx,
		"UPDATE books SET read = ?, last_modified = ? WHERE title = ?",
		read, now, title,
	)
	if err != nil {
		return false, fmt.Errorf("set read flag: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set read flag: %w", err)
	}
	return updated > 0, nil
}

// Remove deletes an entry by title, reporting whether one existed.
func (s *Store) Remove(ctx context.Context, title string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM books WHERE title = ?", title)
	if err != nil {
		return false, fmt.Errorf("remove book: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove book: %w", err)
	}
	return removed > 0, nil
}
