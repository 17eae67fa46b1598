package goodreads

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func docFromString(t testing.TB, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractAllDefaults(t *testing.T) {
	doc := docFromString(t, `<html><body><p>nothing useful here</p></body></html>`)

	expected := Book{
		Title:       UnknownTitle,
		Author:      UnknownAuthor,
		Description: NoDescription,
	}
	if diff := cmp.Diff(expected, extractBook(doc)); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractYear(t *testing.T) {
	testCases := []struct {
		text     string
		expected int
	}{
		{text: "First published in 1865 by somebody", expected: 1865},
		{text: "First published in 99 by somebody", expected: 0},
		{text: "no publication info at all", expected: 0},
	}

	for _, test := range testCases {
		doc := docFromString(t, fmt.Sprintf("<html><body><p>%s</p></body></html>", test.text))
		require.Equal(t, test.expected, extractYear(doc), test.text)
	}
}

func TestExtractYearRegexSpansMarkup(t *testing.T) {
	// the regex runs over the whole page text, not a single element
	doc := docFromString(t, `<html><body><span>First published</span> <span>January 1, 1992</span></body></html>`)
	require.Equal(t, 1992, extractYear(doc))
}

func TestExtractPages(t *testing.T) {
	doc := docFromString(t, `
		<div class="FeaturedDetails">
			<p>Hardcover</p>
			<p>422 pages, first edition</p>
		</div>
	`)
	require.Equal(t, 422, extractPages(doc))

	doc = docFromString(t, `<div class="FeaturedDetails"><p>Hardcover</p></div>`)
	require.Equal(t, 0, extractPages(doc))

	doc = docFromString(t, `<p>422 pages</p>`)
	require.Equal(t, 0, extractPages(doc))
}

func TestExtractRating(t *testing.T) {
	doc := docFromString(t, `<div class="RatingStatistics__rating">4.25</div>`)
	require.Equal(t, 4.25, extractRating(doc))

	doc = docFromString(t, `<div class="RatingStatistics__rating">high</div>`)
	require.Equal(t, 0.0, extractRating(doc))

	doc = docFromString(t, `<div></div>`)
	require.Equal(t, 0.0, extractRating(doc))
}

func TestExtractGenres(t *testing.T) {
	doc := docFromString(t, `
		<div class="BookPageMetadataSection__genres">
			<a class="Button__link">Fiction</a>
			<a class="Button__link">Genres</a>
			<a class="Button__link">F</a>
			<a class="Button__link">Fiction</a>
		</div>
		<div class="BookPageMetadataSection__classification">
			<a class="Button__link">Classics</a>
		</div>
	`)

	genres := extractGenres(doc)

	nonEmpty := map[string]bool{}
	for _, g := range genres {
		if g != "" {
			nonEmpty[g] = true
		}
	}
	// order is unspecified, "Genres" and "F" are filtered, the
	// duplicate "Fiction" collapses, the rest of the slots stay empty
	require.Equal(t, map[string]bool{"Fiction": true, "Classics": true}, nonEmpty)
	require.Len(t, genres, GenreSlots)
}

func TestExtractGenresTruncates(t *testing.T) {
	doc := docFromString(t, `
		<div class="BookPageMetadataSection__genres">
			<a class="Button__link">Fantasy</a>
			<a class="Button__link">Adventure</a>
			<a class="Button__link">Epic</a>
			<a class="Button__link">Classics</a>
			<a class="Button__link">Fiction</a>
			<a class="Button__link">Medieval</a>
		</div>
	`)

	genres := extractGenres(doc)
	for _, g := range genres {
		require.NotEmpty(t, g)
	}
}

func TestExtractDescriptionFallback(t *testing.T) {
	doc := docFromString(t, `
		<div class="TruncatedContent__text--large">A sweeping tale.</div>
	`)
	require.Equal(t, "A sweeping tale.", extractDescription(doc))

	doc = docFromString(t, `
		<div class="DetailsLayoutRightParagraph__widthConstrained">The full blurb.</div>
		<div class="TruncatedContent__text--large">A sweeping tale.</div>
	`)
	require.Equal(t, "The full blurb.", extractDescription(doc))

	doc = docFromString(t, `<div></div>`)
	require.Equal(t, NoDescription, extractDescription(doc))
}

func TestExtractCoverImageURL(t *testing.T) {
	doc := docFromString(t, `
		<div class="BookCover__image">
			<img src="https://images.example.com/cover._SY475_.jpg"/>
		</div>
	`)
	require.Equal(t, "https://images.example.com/cover._SX1200_.jpg", extractCoverImageURL(doc))

	// no low-res marker, passes through unchanged
	doc = docFromString(t, `
		<div class="BookCover__image">
			<img src="https://images.example.com/cover.jpg"/>
		</div>
	`)
	require.Equal(t, "https://images.example.com/cover.jpg", extractCoverImageURL(doc))

	doc = docFromString(t, `<div class="BookCover__image"><img/></div>`)
	require.Equal(t, "", extractCoverImageURL(doc))

	doc = docFromString(t, `<div></div>`)
	require.Equal(t, "", extractCoverImageURL(doc))
}
