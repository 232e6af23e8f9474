package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText returns the concatenated text content of a node subtree,
// the same way a browser would render it without styling.
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

// TextWithBreaks is GetText with <br> elements rendered as newlines.
// manaba packs multi-line cell values (status blocks, report details)
// into a single td separated only by <br>.
func TextWithBreaks(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		textWithBreaksRecursive(n, &buffer)
	}
	return buffer.String()
}

func textWithBreaksRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteString("\n")
		return
	}
	child := node.FirstChild
	for child != nil {
		textWithBreaksRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText trims surrounding whitespace and collapses runs of interior
// whitespace to a single space.
func CleanText(s string) string {
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

type Anchor struct {
	Name string
	Href string
}

// FirstAnchor returns the first <a> within the selection, with its text
// cleaned. The zero Anchor means no anchor was found.
func FirstAnchor(sel *goquery.Selection) Anchor {
	a := sel.Find("a").First()
	if a.Length() == 0 {
		return Anchor{}
	}
	return Anchor{
		Name: CleanText(a.Text()),
		Href: a.AttrOr("href", ""),
	}
}
