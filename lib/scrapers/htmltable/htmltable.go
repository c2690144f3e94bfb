package htmltable

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"tablescrape/lib/htmlutil"
	"tablescrape/lib/telemetry"
	"tablescrape/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("tablescrape.lib.scrapers.htmltable")

// Locate returns the first table in document order carrying class.
func Locate(ctx context.Context, doc *goquery.Document, class string) (*goquery.Selection, bool) {
	_, span := tracer.Start(ctx, "Locate")
	defer span.End()
	span.SetAttributes(attribute.String("class", class))

	table := htmlutil.FindFirst(doc.Selection, "table", func(s *goquery.Selection) bool {
		return htmlutil.HasClass(s, class)
	})
	span.SetAttributes(attribute.Bool("found", table != nil))
	return table, table != nil
}

// Extract walks every row of the table (nested tables included) and
// collects the trimmed text of its header and data cells in document order.
// A row without cells yields an empty row.
func Extract(ctx context.Context, table *goquery.Selection) Grid {
	_, span := tracer.Start(ctx, "Extract")
	defer span.End()

	grid := Grid{}
	htmlutil.FindAll(table, "tr").Each(func(_ int, tr *goquery.Selection) {
		row := []string{}
		htmlutil.FindAll(tr, "td", "th").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, htmlutil.Text(cell))
		})
		grid = append(grid, row)
	})

	span.SetAttributes(
		attribute.Int("rows", len(grid)),
		attribute.Int("columns", grid.Columns()),
	)
	return grid
}

// Summary describes one table of a document.
type Summary struct {
	Index   int
	Id      string
	Classes []string
	Rows    int
	Columns int
	// Caption is the table's <caption>, or its first row when it has none.
	Caption string
}

// List summarizes every table in the document, outer tables first.
func List(ctx context.Context, doc *goquery.Document) []Summary {
	var result []Summary
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		grid := Extract(ctx, table)
		caption := htmlutil.Text(table.ChildrenFiltered("caption"))
		if caption == "" && len(grid) > 0 {
			caption = joinPreview(grid[0])
		}
		result = append(result, Summary{
			Index:   i,
			Id:      table.AttrOr("id", ""),
			Classes: htmlutil.Classes(table),
			Rows:    len(grid),
			Columns: grid.Columns(),
			Caption: caption,
		})
	})
	return result
}

const previewLength = 60

func joinPreview(cells []string) string {
	out := []rune(strings.Join(cells, " | "))
	if len(out) > previewLength {
		return string(out[:previewLength]) + "..."
	}
	return string(out)
}

// similarity below which a class is not worth suggesting
const suggestThreshold = 0.7

// Suggest ranks the classes used by tables in the document by how close
// they are to the class that was not found, best first.
func Suggest(doc *goquery.Document, class string, limit int) []string {
	type candidate struct {
		class      string
		similarity float64
	}

	target := textutil.NormalizeName(class)
	seen := map[string]struct{}{}
	var candidates []candidate
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		for _, c := range htmlutil.Classes(table) {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}

			similarity := matchr.JaroWinkler(target, textutil.NormalizeName(c), false)
			if similarity < suggestThreshold {
				continue
			}
			candidates = append(candidates, candidate{class: c, similarity: similarity})
		}
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]string, len(candidates))
	for i, c := range candidates {
		result[i] = c.class
	}
	if len(result) > 0 {
		slog.Debug("table class suggestions", "class", class, "suggestions", result)
	}
	return result
}
