package spreadsheet

import (
	"context"
	"fmt"
	"log/slog"
	"tablescrape/lib/scrapers/htmltable"
	"unicode/utf8"

	"github.com/natefinch/atomic"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// XLSXWriter writes the grid to a single sheet workbook. The header row is
// bold and centered, data rows are left aligned and every column is sized
// to its longest value.
type XLSXWriter struct {
	// defaults to DefaultSheetName
	SheetName string
	HeaderRow bool
}

func (w XLSXWriter) Export(ctx context.Context, grid htmltable.Grid, path string) error {
	ctx, span := tracer.Start(ctx, "XLSXWriter.Export")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	if len(grid) == 0 {
		span.SetStatus(codes.Error, ErrEmptyGrid.Error())
		return ErrEmptyGrid
	}

	sheet := w.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	err := f.SetSheetName(f.GetSheetName(0), sheet)
	if err != nil {
		return fmt.Errorf("name sheet %q: %w", sheet, err)
	}

	err = w.fill(ctx, f, sheet, grid.Rectangular())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fill sheet")
		return err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode workbook")
		return fmt.Errorf("encode workbook: %w", err)
	}
	err = atomic.WriteFile(path, buf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save workbook")
		return fmt.Errorf("save %s: %w", path, err)
	}

	slog.DebugContext(ctx, "workbook saved", "path", path, "sheet", sheet, "rows", len(grid))
	return nil
}

func (w XLSXWriter) fill(ctx context.Context, f *excelize.File, sheet string, grid htmltable.Grid) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return err
	}

	for r, row := range grid {
		for c, value := range row {
			// padded cells stay blank
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if n := utf8.RuneCountInString(value); n > excelize.TotalCellChars {
				slog.WarnContext(
					ctx, "cell value truncated",
					"cell", cell,
					"length", n,
					"limit", excelize.TotalCellChars,
				)
			}
			err = f.SetCellStr(sheet, cell, value)
			if err != nil {
				return err
			}
		}
	}

	columns := grid.Columns()
	if columns == 0 {
		return nil
	}

	firstBody := 1
	if w.HeaderRow {
		err = styleRows(f, sheet, 1, 1, columns, headerStyle)
		if err != nil {
			return err
		}
		firstBody = 2
	}
	if firstBody <= len(grid) {
		err = styleRows(f, sheet, firstBody, len(grid), columns, bodyStyle)
		if err != nil {
			return err
		}
	}

	for i, width := range ColumnWidths(grid) {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		// excelize rejects widths past MaxColumnWidth
		width = min(width, excelize.MaxColumnWidth)
		err = f.SetColWidth(sheet, name, name, float64(width))
		if err != nil {
			return err
		}
	}

	return nil
}

// styleRows applies style to the rectangle spanning rows [from, to] and
// the first `columns` columns, rows are 1-based.
func styleRows(f *excelize.File, sheet string, from, to, columns, style int) error {
	topLeft, err := excelize.CoordinatesToCellName(1, from)
	if err != nil {
		return err
	}
	bottomRight, err := excelize.CoordinatesToCellName(columns, to)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, topLeft, bottomRight, style)
}
