package spreadsheet

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"tablescrape/lib/scrapers/htmltable"
	"tablescrape/lib/telemetry"
	"unicode/utf8"
)

var tracer = telemetry.Tracer("tablescrape.lib.spreadsheet")

var ErrEmptyGrid = errors.New("table has no rows to export")

const DefaultSheetName = "Table Data"

// padding added to the longest value of a column
const widthPadding = 2

// Exporter persists a grid to path, replacing whatever is there.
type Exporter interface {
	Export(ctx context.Context, grid htmltable.Grid, path string) error
}

type Options struct {
	SheetName string
	// HeaderRow treats the first row of the grid as column labels.
	HeaderRow bool
}

// ForPath picks the exporter matching the file extension of path,
// defaulting to xlsx.
func ForPath(path string, opts Options) Exporter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSVWriter{}
	default:
		return XLSXWriter{
			SheetName: opts.SheetName,
			HeaderRow: opts.HeaderRow,
		}
	}
}

// ColumnWidths is the rune length of the longest non-empty value of each
// column plus padding. A column without values gets just the padding.
func ColumnWidths(grid htmltable.Grid) []int {
	widths := make([]int, grid.Columns())
	for _, row := range grid {
		for i, cell := range row {
			length := utf8.RuneCountInString(cell)
			if length > widths[i] {
				widths[i] = length
			}
		}
	}
	for i := range widths {
		widths[i] += widthPadding
	}
	return widths
}
