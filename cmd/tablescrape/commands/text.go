package commands

import (
	"fmt"
	"tablescrape/lib/pipeline"
	"tablescrape/lib/scrapers/webpage"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(textCmd)
}

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Prints the text content of the whole page.",
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline(cmd)
		result, err := p.Load(cmd.Context())
		if err != nil {
			fatal(cmd, "failed to load page", err)
		}
		if result.Outcome != pipeline.Loaded {
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), webpage.Text(result.Document))
	},
}
