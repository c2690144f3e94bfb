package commands

import (
	"fmt"
	"tablescrape/lib/pipeline"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var previewLimit int

func init() {
	previewCmd.Flags().IntVarP(&previewLimit, "limit", "n", 20, "The maximum amount of data rows to show, 0 shows all.")
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview [--limit <rows>]",
	Short: "Prints the extracted table instead of writing a file.",
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline(cmd)
		result, err := p.Extract(cmd.Context())
		if err != nil {
			fatal(cmd, "failed to extract table", err)
		}
		if result.Outcome != pipeline.Extracted {
			return
		}

		header, rows := result.Grid.Split(!p.Config.NoHeader)

		t := NewTable(cmd.OutOrStdout())
		if header != nil {
			t.AppendHeader(toRow(header))
		}
		shown := rows
		if previewLimit > 0 && len(shown) > previewLimit {
			shown = shown[:previewLimit]
		}
		for _, row := range shown {
			t.AppendRow(toRow(row))
		}
		if len(shown) < len(rows) {
			t.AppendFooter(table.Row{fmt.Sprintf("%d more rows", len(rows)-len(shown))})
		}
		t.Render()
	},
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
