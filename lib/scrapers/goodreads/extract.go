package goodreads

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookshelf-backend/lib/htmlutil"
)

// Selector chains, tried in order, first match wins. The site's markup
// drifts over time; extending a chain should be the entire fix.
var (
	titleSelectors  = []string{"h1.Text__title1"}
	authorSelectors = []string{"span.ContributorLink__name"}
	ratingSelectors = []string{"div.RatingStatistics__rating"}
	descriptionSelectors = []string{
		"div.DetailsLayoutRightParagraph__widthConstrained",
		"div.TruncatedContent__text--large",
	}
	// both families contribute genres, the second is not a fallback
	genreSelectors = []string{
		"div.BookPageMetadataSection__genres a.Button__link",
		"div.BookPageMetadataSection__classification a.Button__link",
	}
	coverSelector           = "div.BookCover__image img"
	featuredDetailsSelector = "div.FeaturedDetails"
)

const (
	coverLowResMarker  = "._SY475_"
	coverHighResMarker = "._SX1200_"
)

var (
	yearRegex  = regexp.MustCompile(`First published.*?(\d{4})`)
	pagesRegex = regexp.MustCompile(`(\d+) pages`)
)

// extractBook runs every field extractor over an already parsed detail
// page. Extractors are total: missing or malformed markup resolves to
// the field's sentinel default, never an error, so a partially broken
// page still yields a usable record.
func extractBook(doc *goquery.Document) Book {
	return Book{
		Title:         extractTitle(doc),
		Author:        extractAuthor(doc),
		Year:          extractYear(doc),
		Pages:         extractPages(doc),
		Rating:        extractRating(doc),
		Genres:        extractGenres(doc),
		Description:   extractDescription(doc),
		CoverImageURL: extractCoverImageURL(doc),
	}
}

func extractTitle(doc *goquery.Document) string {
	return htmlutil.FirstText(doc, UnknownTitle, titleSelectors...)
}

func extractAuthor(doc *goquery.Document) string {
	return htmlutil.FirstText(doc, UnknownAuthor, authorSelectors...)
}

func extractYear(doc *goquery.Document) int {
	match := yearRegex.FindStringSubmatch(doc.Text())
	if match == nil {
		return 0
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	if year < 1000 || year > 9999 {
		return 0
	}
	return year
}

func extractPages(doc *goquery.Document) int {
	details := doc.Find(featuredDetailsSelector).First()
	if details.Length() == 0 {
		return 0
	}
	match := pagesRegex.FindStringSubmatch(details.Text())
	if match == nil {
		return 0
	}
	pages, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return pages
}

func extractRating(doc *goquery.Document) float64 {
	text := htmlutil.FirstText(doc, "", ratingSelectors...)
	if text == "" {
		return 0
	}
	rating, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return rating
}

// filters out selector hits that are actually heading labels ("Genres")
// or stray single characters rather than genre chips
func isGenreLabel(text string) bool {
	lower := strings.ToLower(text)
	return lower == "genre" || lower == "genres" || len(text) <= 1
}

func extractGenres(doc *goquery.Document) [GenreSlots]string {
	seen := map[string]bool{}
	for _, selector := range genreSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if isGenreLabel(text) {
				return
			}
			seen[text] = true
		})
	}

	var genres [GenreSlots]string
	i := 0
	for genre := range seen {
		if i >= GenreSlots {
			break
		}
		genres[i] = genre
		i++
	}
	return genres
}

func extractDescription(doc *goquery.Document) string {
	return htmlutil.FirstText(doc, NoDescription, descriptionSelectors...)
}

func extractCoverImageURL(doc *goquery.Document) string {
	img := doc.Find(coverSelector).First()
	if img.Length() == 0 {
		return ""
	}
	src, ok := img.Attr("src")
	if !ok {
		return ""
	}
	// the page serves a low-res thumbnail, the high-res variant lives
	// at the same url with a different size fragment
	return strings.Replace(src, coverLowResMarker, coverHighResMarker, 1)
}
