package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bookshelf-backend/lib/bookstore"
	"bookshelf-backend/lib/covers"
	"bookshelf-backend/lib/restyutil"
	"bookshelf-backend/lib/scrapers/goodreads"
	"bookshelf-backend/lib/serviceutil"
	"bookshelf-backend/lib/telemetry"
	"bookshelf-backend/services/library"
)

var (
	dbPath    *string
	coverDir  *string
	baseUrl   *string
	verbose   *bool
	httpDumps *string
)

var rootCmd = &cobra.Command{
	Use:   "bookshelf-cli",
	Short: "bookshelf-cli searches an online book catalog and manages a personal library.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	dbPath = rootCmd.PersistentFlags().String("db", "library.db", "The library database.")
	coverDir = rootCmd.PersistentFlags().String("covers", covers.DefaultFolder, "The folder cover images are saved to.")
	baseUrl = rootCmd.PersistentFlags().String("base-url", goodreads.DefaultBaseUrl, "The book catalog to scrape.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging and HTTP dumps.")
	httpDumps = rootCmd.PersistentFlags().String("http-dumps", ".dev/resty/goodreads", "Where verbose HTTP dumps are written.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newService() (library.Service, func()) {
	scraper, err := goodreads.NewClient(goodreads.ClientOptions{
		BaseUrl: *baseUrl,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize catalog client", err)
	}
	if *verbose {
		scraper.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(*httpDumps))
	}

	store, err := bookstore.Open(*dbPath)
	if err != nil {
		serviceutil.Fatal("failed to open library db", err)
	}

	return library.NewService(scraper, store, *coverDir), func() {
		store.Close()
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
