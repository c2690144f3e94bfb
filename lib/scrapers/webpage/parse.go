package webpage

import (
	"net/url"
	"strings"
	"tablescrape/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Parse builds a document from the page body. The underlying html5 parser
// repairs broken markup instead of failing on it.
func Parse(page Page) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		return nil, err
	}
	if page.URL != "" {
		link, err := url.Parse(page.URL)
		if err == nil {
			doc.Url = link
		}
	}
	return doc, nil
}

// Text returns every text node of the document concatenated, markup removed.
func Text(doc *goquery.Document) string {
	if len(doc.Nodes) == 0 {
		return ""
	}
	return htmlutil.GetText(doc.Nodes[0])
}
