package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"tablescrape/lib/scrapers/htmltable"

	"github.com/natefinch/atomic"
	"go.opentelemetry.io/otel/attribute"
)

// CSVWriter writes the grid as comma separated values, padded to a
// rectangle. It carries no formatting so the header flag does not matter.
type CSVWriter struct{}

func (CSVWriter) Export(ctx context.Context, grid htmltable.Grid, path string) error {
	_, span := tracer.Start(ctx, "CSVWriter.Export")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	if len(grid) == 0 {
		return ErrEmptyGrid
	}

	var buf bytes.Buffer
	err := csv.NewWriter(&buf).WriteAll(grid.Rectangular())
	if err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	err = atomic.WriteFile(path, &buf)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
