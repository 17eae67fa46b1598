package goodreads

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const candidateRowSelector = `tr[itemtype="http://schema.org/Book"]`
const candidateLinkSelector = "a.bookTitle"

// Search fetches the results page for a free-text query, then fetches
// the detail page of up to 3 candidates, strictly in document order and
// serially, pausing before each detail fetch. A candidate that cannot
// be fetched or lacks a detail link is dropped; the call only fails
// when the results page itself is unusable. An empty slice is a valid
// outcome when candidates existed but none yielded a record.
func (c *Client) Search(ctx context.Context, query string) ([]Book, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()

	resultsCtx, cancel := context.WithTimeout(ctx, resultsTimeout)
	defer cancel()

	res, err := c.Http.R().
		SetContext(resultsCtx).
		SetQueryParam("q", query).
		Get("/search")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch results page")
		return nil, &SearchError{Cause: ErrNetwork, Query: query, Err: err}
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "results page returned error status")
		return nil, &SearchError{
			Cause: ErrNetwork,
			Query: query,
			Err:   fmt.Errorf("unexpected status %d", res.StatusCode()),
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse results page")
		return nil, &SearchError{Cause: ErrScraping, Query: query, Err: err}
	}

	rows := doc.Find(candidateRowSelector)
	if rows.Length() == 0 {
		span.SetStatus(codes.Error, "no candidates on results page")
		return nil, &SearchError{Cause: ErrNoResults, Query: query}
	}

	var books []Book
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= maxCandidates {
			return false
		}

		href := row.Find(candidateLinkSelector).First().AttrOr("href", "")
		if href == "" {
			// candidate without a detail link, not an error
			return true
		}
		detailUrl := c.resolveDetailUrl(href)

		time.Sleep(c.detailPause)

		book, err := c.BookDetails(ctx, detailUrl)
		if err != nil {
			slog.WarnContext(
				ctx, "dropping candidate",
				"url", detailUrl,
				"err", err,
			)
			return true
		}
		books = append(books, book)
		return true
	})

	return books, nil
}

// BookDetails fetches one detail page and extracts a full record from
// it. Unlike the results-page fetch this one carries no deadline.
func (c *Client) BookDetails(ctx context.Context, detailUrl string) (Book, error) {
	ctx, span := tracer.Start(ctx, "client:BookDetails")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(detailUrl)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch detail page")
		return Book{}, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "detail page returned error status")
		return Book{}, fmt.Errorf("unexpected status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse detail page")
		return Book{}, err
	}

	book := extractBook(doc)
	book.SourceURL = detailUrl
	return book, nil
}

func (c *Client) resolveDetailUrl(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimSuffix(c.BaseUrl.String(), "/") + href
}
