package cmd

import (
	"github.com/KaramelBytes/nearabl-cli/internal/record"
	"github.com/KaramelBytes/nearabl-cli/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse, search and summarize the dataset interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, err := record.ParseField(cfg.SearchField)
		if err != nil {
			search = record.State
		}
		summary, err := record.ParseField(cfg.SummaryField)
		if err != nil {
			summary = record.State
		}
		ld, err := newLoader()
		if err != nil {
			return err
		}
		return tui.Run(cmd.Context(), ld, search, summary)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
