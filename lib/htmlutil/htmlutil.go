package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under node in document order.
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

// Text is the text content of every node in the selection with the
// surrounding whitespace trimmed.
func Text(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	return strings.TrimSpace(buffer.String())
}

// FindAll returns every descendant element whose tag is one of tags, in
// document order.
func FindAll(sel *goquery.Selection, tags ...string) *goquery.Selection {
	return sel.Find(strings.Join(tags, ", "))
}

// FindFirst returns the first descendant element with the given tag that
// satisfies match, or nil. A nil match accepts any element.
func FindFirst(sel *goquery.Selection, tag string, match func(*goquery.Selection) bool) *goquery.Selection {
	found := sel.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return match == nil || match(s)
	})
	if found.Length() == 0 {
		return nil
	}
	return found.First()
}

// Classes splits the class attribute of the first element of sel.
func Classes(sel *goquery.Selection) []string {
	return strings.Fields(sel.AttrOr("class", ""))
}

// HasClass reports whether class is one of the element's classes or the
// whole class attribute verbatim (so "a b" matches class="a b").
func HasClass(sel *goquery.Selection, class string) bool {
	attr, ok := sel.Attr("class")
	if !ok {
		return false
	}
	if attr == class {
		return true
	}
	for _, c := range strings.Fields(attr) {
		if c == class {
			return true
		}
	}
	return false
}
