package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// SelectFirst tries each selector in order and returns the first
// selection with at least one node. The chain exists because the sites
// being scraped change their markup over time; adding a selector to the
// end of a chain should be the entire fix.
func SelectFirst(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, selector := range selectors {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}

// FirstText returns the trimmed text of the first selector in the chain
// that matches, or fallback when none do.
func FirstText(doc *goquery.Document, fallback string, selectors ...string) string {
	sel := SelectFirst(doc, selectors...)
	if sel == nil || len(sel.Nodes) == 0 {
		return fallback
	}
	text := strings.TrimSpace(GetText(sel.Nodes[0]))
	if text == "" {
		return fallback
	}
	return text
}
