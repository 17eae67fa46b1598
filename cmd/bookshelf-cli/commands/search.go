package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bookshelf-backend/lib/scrapers/goodreads"
	"bookshelf-backend/services/library"
)

var pick *int

func init() {
	rootCmd.AddCommand(searchCmd)

	pick = importCmd.Flags().Int("pick", 1, "Which search result to import, 1-based.")
	rootCmd.AddCommand(importCmd)
}

func runSearch(cmd *cobra.Command, service library.Service, args []string) []goodreads.Book {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "query must not be empty")
		os.Exit(1)
	}

	books, err := service.Search(cmd.Context(), query)
	if err != nil {
		var searchErr *goodreads.SearchError
		if errors.As(err, &searchErr) {
			fmt.Fprintln(os.Stderr, searchErr.Error())
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return books
}

func genreSummary(genres [goodreads.GenreSlots]string) string {
	var present []string
	for _, g := range genres {
		if g != "" {
			present = append(present, g)
		}
	}
	return strings.Join(present, ", ")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches the online catalog and prints up to 3 candidates.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, cleanup := newService()
		defer cleanup()

		books := runSearch(cmd, service, args)

		t := newTable()
		t.AppendHeader(table.Row{"#", "Title", "Author", "Year", "Pages", "Rating", "Genres"})
		for i, b := range books {
			t.AppendRow(table.Row{
				i + 1, b.Title, b.Author, b.Year, b.Pages, b.Rating,
				genreSummary(b.Genres),
			})
		}
		t.Render()
	},
}

var importCmd = &cobra.Command{
	Use:   "import [--pick <n>] <query>",
	Short: "Searches the online catalog and imports one result into the library.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, cleanup := newService()
		defer cleanup()

		books := runSearch(cmd, service, args)

		if *pick < 1 || *pick > len(books) {
			fmt.Fprintf(os.Stderr, "pick %d is out of range, search yielded %d result(s)\n", *pick, len(books))
			os.Exit(1)
		}
		book := books[*pick-1]

		added, err := service.Import(cmd.Context(), book)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !added {
			fmt.Printf("%q is already in the library\n", book.Title)
			return
		}
		fmt.Printf("imported %q by %s\n", book.Title, book.Author)
	},
}
