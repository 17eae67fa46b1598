package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func docFromString(t testing.TB, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestSelectFirst(t *testing.T) {
	doc := docFromString(t, `
		<div class="alternate">second choice</div>
		<div class="alternate">third</div>
	`)

	sel := SelectFirst(doc, "div.primary", "div.alternate")
	require.NotNil(t, sel)
	require.Equal(t, "second choice", sel.Text())

	require.Nil(t, SelectFirst(doc, "div.primary", "span.missing"))
}

func TestFirstText(t *testing.T) {
	doc := docFromString(t, `<p class="empty">   </p>`)

	require.Equal(t, "fallback", FirstText(doc, "fallback", "p.empty"))
	require.Equal(t, "fallback", FirstText(doc, "fallback", "p.missing"))

	doc = docFromString(t, `<h1 class="title">  Dune  </h1>`)
	require.Equal(t, "Dune", FirstText(doc, "fallback", "h1.title"))
}
