package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bookshelf-backend/lib/bookstore"
)

var (
	sortOrder *string
	unread    *bool
)

func init() {
	sortOrder = listCmd.Flags().String("sort", "title", "Sort order: title, author, year, rating or added.")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(removeCmd)

	unread = readCmd.Flags().Bool("unread", false, "Mark the book unread instead.")
	rootCmd.AddCommand(readCmd)
}

func renderEntries(entries []bookstore.Entry) {
	t := newTable()
	t.AppendHeader(table.Row{"Title", "Author", "Year", "Pages", "Rating", "Genres", "Read", "Added"})
	for _, e := range entries {
		read := ""
		if e.Read {
			read = "yes"
		}
		t.AppendRow(table.Row{
			e.Title, e.Author, e.Year, e.Pages, e.Rating,
			genreSummary(e.Genres), read,
			e.DateAdded.Format("2006-01-02"),
		})
	}
	t.Render()
}

var listCmd = &cobra.Command{
	Use:   "list [--sort <order>]",
	Short: "Prints the library.",
	Run: func(cmd *cobra.Command, args []string) {
		service, cleanup := newService()
		defer cleanup()

		entries, err := service.Books(cmd.Context(), bookstore.SortOrder(*sortOrder))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		renderEntries(entries)
	},
}

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Finds library entries whose titles match the query, fuzzily.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, cleanup := newService()
		defer cleanup()

		entries, err := service.Find(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		renderEntries(entries)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <title>",
	Short: "Removes a book (and its saved cover) from the library.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, cleanup := newService()
		defer cleanup()

		title := strings.Join(args, " ")
		removed, err := service.Remove(cmd.Context(), title)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !removed {
			fmt.Printf("%q is not in the library\n", title)
			return
		}
		fmt.Printf("removed %q\n", title)
	},
}

var readCmd = &cobra.Command{
	Use:   "read [--unread] <title>",
	Short: "Marks a book as read.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, cleanup := newService()
		defer cleanup()

		title := strings.Join(args, " ")
		ok, err := service.MarkRead(cmd.Context(), title, !*unread)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !ok {
			fmt.Printf("%q is not in the library\n", title)
		}
	},
}
