package commands

import (
	"strings"
	"tablescrape/lib/pipeline"
	"tablescrape/lib/scrapers/htmltable"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tablesCmd)
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Lists every table on the page with its classes, to find the right --class.",
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline(cmd)
		result, err := p.Load(cmd.Context())
		if err != nil {
			fatal(cmd, "failed to load page", err)
		}
		if result.Outcome != pipeline.Loaded {
			return
		}

		t := NewTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"#", "Id", "Classes", "Rows", "Columns", "Caption"})
		for _, s := range htmltable.List(cmd.Context(), result.Document) {
			t.AppendRow(table.Row{
				s.Index,
				s.Id,
				strings.Join(s.Classes, " "),
				s.Rows,
				s.Columns,
				s.Caption,
			})
		}
		t.Render()
	},
}
