package goodreads

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookshelf-backend/lib/telemetry"
)

const resultRowTemplate = `
	<tr itemtype="http://schema.org/Book">
		<td><a class="bookTitle" href="/book/show/%d">result %d</a></td>
	</tr>`

func detailPage(title string) string {
	return fmt.Sprintf(`<html><body>
		<h1 class="Text__title1">%s</h1>
		<span class="ContributorLink__name">Some Author</span>
	</body></html>`, title)
}

func newCatalogServer(t testing.TB, resultRows int, detail func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		rows := ""
		for i := 1; i <= resultRows; i++ {
			rows += fmt.Sprintf(resultRowTemplate, i, i)
		}
		fmt.Fprintf(w, `<html><body><table>%s</table></body></html>`, rows)
	})
	mux.HandleFunc("/book/show/", detail)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t testing.TB, baseUrl string) *Client {
	client, err := NewClient(ClientOptions{
		BaseUrl:     baseUrl,
		DetailPause: time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestSearchCapsAndOrdersCandidates(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/goodreads")
	defer cleanup()

	server := newCatalogServer(t, 5, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detailPage("book at "+r.URL.Path))
	})
	client := newTestClient(t, server.URL)

	books, err := client.Search(context.Background(), "the trial")
	require.NoError(t, err)
	require.Len(t, books, 3)

	for i, book := range books {
		require.Equal(t, fmt.Sprintf("book at /book/show/%d", i+1), book.Title)
		require.Equal(t, fmt.Sprintf("%s/book/show/%d", server.URL, i+1), book.SourceURL)
		require.Equal(t, "Some Author", book.Author)
	}
}

func TestSearchNoResults(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/goodreads")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table></table></body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)

	_, err := client.Search(context.Background(), "qwmzkx")

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	require.Equal(t, ErrNoResults, searchErr.Cause)
	require.Equal(t, `no results found for "qwmzkx"`, searchErr.Error())
}

func TestSearchResultsPageNetworkFailure(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/goodreads")
	defer cleanup()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestClient(t, url)

	_, err := client.Search(context.Background(), "anything")

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	require.Equal(t, ErrNetwork, searchErr.Cause)
}

func TestSearchResultsPageErrorStatus(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/goodreads")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)

	_, err := client.Search(context.Background(), "anything")

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	require.Equal(t, ErrNetwork, searchErr.Cause)
}

func TestSearchDropsFailingCandidates(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/goodreads")
	defer cleanup()

	server := newCatalogServer(t, 3, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/book/show/2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, detailPage("book at "+r.URL.Path))
	})
	client := newTestClient(t, server.URL)

	books, err := client.Search(context.Background(), "whatever")
	require.NoError(t, err)
	require.Len(t, books, 2)
	require.Equal(t, "book at /book/show/1", books[0].Title)
	require.Equal(t, "book at /book/show/3", books[1].Title)
}

func TestSearchAllCandidatesFailIsNotAnError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/goodreads")
	defer cleanup()

	server := newCatalogServer(t, 2, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newTestClient(t, server.URL)

	books, err := client.Search(context.Background(), "whatever")
	require.NoError(t, err)
	require.Empty(t, books)
}

func TestSearchSkipsCandidatesWithoutLinks(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/goodreads")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table>
			<tr itemtype="http://schema.org/Book"><td>no anchor at all</td></tr>
			<tr itemtype="http://schema.org/Book">
				<td><a class="bookTitle" href="/book/show/7">with anchor</a></td>
			</tr>
		</table></body></html>`)
	})
	mux.HandleFunc("/book/show/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detailPage("the seventh"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)

	books, err := client.Search(context.Background(), "whatever")
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "the seventh", books[0].Title)
}

// Detail-page fetches deliberately carry no deadline of their own (only
// the results-page fetch is bounded), so a slow detail server delays a
// candidate rather than dropping it. Bounding detail fetches too would
// change this behavior; this test pins the current contract.
func TestSearchSlowDetailPageStillSucceeds(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/goodreads")
	defer cleanup()

	server := newCatalogServer(t, 1, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, detailPage("slow but fine"))
	})
	client := newTestClient(t, server.URL)

	books, err := client.Search(context.Background(), "whatever")
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "slow but fine", books[0].Title)
}

func TestSearchContextCancellation(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/goodreads")
	defer cleanup()

	server := newCatalogServer(t, 1, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detailPage("unreachable"))
	})
	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "whatever")
	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	require.Equal(t, ErrNetwork, searchErr.Cause)
	require.ErrorIs(t, searchErr, context.Canceled)
}
