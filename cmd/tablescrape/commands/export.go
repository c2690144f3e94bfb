package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--url <page>] [--class <table class>] [--out <path/to/file.xlsx>]",
	Short: "Extracts the table and writes it to a spreadsheet.",
	Run: func(cmd *cobra.Command, args []string) {
		runExport(cmd)
	},
}

func runExport(cmd *cobra.Command) {
	p := newPipeline(cmd)
	_, err := p.Run(cmd.Context())
	if err != nil {
		fatal(cmd, "failed to export table", err)
	}
}
