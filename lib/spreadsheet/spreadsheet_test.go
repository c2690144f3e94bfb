package spreadsheet

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"tablescrape/lib/scrapers/htmltable"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t testing.TB, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		f.Close()
	})
	return f
}

func cellStyle(t testing.TB, f *excelize.File, sheet, cell string) *excelize.Style {
	t.Helper()
	idx, err := f.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(idx)
	require.NoError(t, err)
	return style
}

func requireHeaderStyle(t testing.TB, style *excelize.Style) {
	t.Helper()
	require.NotNil(t, style.Font)
	require.True(t, style.Font.Bold)
	require.NotNil(t, style.Alignment)
	require.Equal(t, "center", style.Alignment.Horizontal)
}

func requireBodyStyle(t testing.TB, style *excelize.Style) {
	t.Helper()
	if style.Font != nil {
		require.False(t, style.Font.Bold)
	}
	require.NotNil(t, style.Alignment)
	require.Equal(t, "left", style.Alignment.Horizontal)
}

func TestColumnWidths(t *testing.T) {
	grid := htmltable.Grid{{"A", "B"}, {"1", "2"}, {"33", "4"}}
	require.Equal(t, []int{4, 3}, ColumnWidths(grid))

	// rune length, not bytes
	require.Equal(t, []int{11}, ColumnWidths(htmltable.Grid{{"Población"}}))

	// a column with only empty values gets the padding alone
	require.Equal(t, []int{3, 2}, ColumnWidths(htmltable.Grid{{"x", ""}, {"", ""}}))
}

func TestXLSXWriterFormatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table_data.xlsx")
	grid := htmltable.Grid{{"A", "B"}, {"1", "2"}, {"33", "4"}}

	err := XLSXWriter{HeaderRow: true}.Export(context.Background(), grid, path)
	require.NoError(t, err)

	f := openWorkbook(t, path)
	require.Equal(t, []string{DefaultSheetName}, f.GetSheetList())

	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"A", "B"}, {"1", "2"}, {"33", "4"}}, rows)

	for _, cell := range []string{"A1", "B1"} {
		requireHeaderStyle(t, cellStyle(t, f, DefaultSheetName, cell))
	}
	for _, cell := range []string{"A2", "B2", "A3", "B3"} {
		requireBodyStyle(t, cellStyle(t, f, DefaultSheetName, cell))
	}

	width, err := f.GetColWidth(DefaultSheetName, "A")
	require.NoError(t, err)
	require.Equal(t, 4.0, width)
	width, err = f.GetColWidth(DefaultSheetName, "B")
	require.NoError(t, err)
	require.Equal(t, 3.0, width)
}

func TestXLSXWriterLongValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table_data.xlsx")
	note := strings.Repeat("x", 260)
	grid := htmltable.Grid{{"Nota", "Valor"}, {note, "1"}}

	// the raw width is still longest + 2, only the written one is capped
	require.Equal(t, []int{262, 7}, ColumnWidths(grid))

	err := XLSXWriter{HeaderRow: true}.Export(context.Background(), grid, path)
	require.NoError(t, err)

	f := openWorkbook(t, path)
	value, err := f.GetCellValue(DefaultSheetName, "A2")
	require.NoError(t, err)
	require.Equal(t, note, value)

	width, err := f.GetColWidth(DefaultSheetName, "A")
	require.NoError(t, err)
	require.Equal(t, float64(excelize.MaxColumnWidth), width)
	width, err = f.GetColWidth(DefaultSheetName, "B")
	require.NoError(t, err)
	require.Equal(t, 7.0, width)
}

func TestXLSXWriterWarnsOnTruncation(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() {
		slog.SetDefault(previous)
	})

	path := filepath.Join(t.TempDir(), "table_data.xlsx")
	grid := htmltable.Grid{{"Nota"}, {strings.Repeat("y", excelize.TotalCellChars+10)}}

	err := XLSXWriter{HeaderRow: true}.Export(context.Background(), grid, path)
	require.NoError(t, err)

	f := openWorkbook(t, path)
	value, err := f.GetCellValue(DefaultSheetName, "A2")
	require.NoError(t, err)
	require.Len(t, value, excelize.TotalCellChars)

	require.Contains(t, logs.String(), "cell value truncated")
	require.Contains(t, logs.String(), "cell=A2")
	require.NotContains(t, logs.String(), "cell=A1")
}

func TestXLSXWriterRaggedRowsArePadded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.xlsx")
	grid := htmltable.Grid{
		{"Indicador", "Periodo", "Valor"},
		{"Paro", "T2"},
		{"PIB", "2024", "1,5", "provisional"},
	}

	err := XLSXWriter{HeaderRow: true}.Export(context.Background(), grid, path)
	require.NoError(t, err)

	f := openWorkbook(t, path)
	value, err := f.GetCellValue(DefaultSheetName, "C2")
	require.NoError(t, err)
	require.Equal(t, "", value)
	requireBodyStyle(t, cellStyle(t, f, DefaultSheetName, "C2"))

	value, err = f.GetCellValue(DefaultSheetName, "D3")
	require.NoError(t, err)
	require.Equal(t, "provisional", value)

	// the header is padded too, so the extra column still gets header styling
	requireHeaderStyle(t, cellStyle(t, f, DefaultSheetName, "D1"))

	width, err := f.GetColWidth(DefaultSheetName, "D")
	require.NoError(t, err)
	require.Equal(t, float64(len("provisional")+2), width)
}

func TestXLSXWriterWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noheader.xlsx")
	grid := htmltable.Grid{{"1", "2"}, {"3", "4"}}

	err := XLSXWriter{SheetName: "Datos"}.Export(context.Background(), grid, path)
	require.NoError(t, err)

	f := openWorkbook(t, path)
	require.Equal(t, []string{"Datos"}, f.GetSheetList())
	requireBodyStyle(t, cellStyle(t, f, "Datos", "A1"))
	requireBodyStyle(t, cellStyle(t, f, "Datos", "B2"))
}

func TestXLSXWriterHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header.xlsx")
	err := XLSXWriter{HeaderRow: true}.Export(context.Background(), htmltable.Grid{{"A"}}, path)
	require.NoError(t, err)

	f := openWorkbook(t, path)
	requireHeaderStyle(t, cellStyle(t, f, DefaultSheetName, "A1"))
}

func TestXLSXWriterOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table_data.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0600))

	err := XLSXWriter{HeaderRow: true}.Export(context.Background(), htmltable.Grid{{"A"}, {"1"}}, path)
	require.NoError(t, err)

	f := openWorkbook(t, path)
	value, err := f.GetCellValue(DefaultSheetName, "A2")
	require.NoError(t, err)
	require.Equal(t, "1", value)
}

func TestXLSXWriterErrors(t *testing.T) {
	ctx := context.Background()

	err := XLSXWriter{}.Export(ctx, htmltable.Grid{}, filepath.Join(t.TempDir(), "empty.xlsx"))
	require.ErrorIs(t, err, ErrEmptyGrid)

	missingDir := filepath.Join(t.TempDir(), "missing", "out.xlsx")
	err = XLSXWriter{}.Export(ctx, htmltable.Grid{{"A"}}, missingDir)
	require.Error(t, err)
	_, statErr := os.Stat(missingDir)
	require.True(t, os.IsNotExist(statErr))
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	grid := htmltable.Grid{{"A", "B"}, {"1"}, {"x, y", "2"}}

	err := CSVWriter{}.Export(context.Background(), grid, path)
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "A,B\n1,\n\"x, y\",2\n", string(contents))

	err = CSVWriter{}.Export(context.Background(), htmltable.Grid{}, path)
	require.ErrorIs(t, err, ErrEmptyGrid)
}

func TestForPath(t *testing.T) {
	require.Equal(t, CSVWriter{}, ForPath("out.CSV", Options{}))
	require.Equal(t,
		XLSXWriter{SheetName: "s", HeaderRow: true},
		ForPath("table_data.xlsx", Options{SheetName: "s", HeaderRow: true}),
	)
	require.IsType(t, XLSXWriter{}, ForPath("no-extension", Options{}))
}
