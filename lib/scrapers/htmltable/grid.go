package htmltable

// Grid is a table's cell text in row-major order. Rows are not required to
// have the same length.
type Grid [][]string

// Columns is the length of the longest row.
func (g Grid) Columns() int {
	columns := 0
	for _, row := range g {
		if len(row) > columns {
			columns = len(row)
		}
	}
	return columns
}

// Rectangular returns a copy of the grid where every row is padded with
// empty cells up to the longest row. Cells are never dropped.
func (g Grid) Rectangular() Grid {
	columns := g.Columns()
	out := make(Grid, len(g))
	for i, row := range g {
		padded := make([]string, columns)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// Split separates the header row from the data rows. Without a header row
// every row is data.
func (g Grid) Split(headerRow bool) (header []string, rows Grid) {
	if !headerRow || len(g) == 0 {
		return nil, g
	}
	return g[0], g[1:]
}
