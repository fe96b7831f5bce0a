package cmd

import (
	"fmt"

	"github.com/KaramelBytes/nearabl-cli/internal/analysis"
	"github.com/KaramelBytes/nearabl-cli/internal/utils"
	"github.com/spf13/cobra"
)

var profOutputPath string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile every field of the dataset as markdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		rep := analysis.NewReport(res.Source, res.Records, len(res.Dropped))
		if res.UsedFallback {
			rep.Warnings = append(rep.Warnings, "dataset could not be loaded; profiling fallback data")
		}
		md := rep.Markdown()

		if profOutputPath != "" {
			if err := utils.SafeWriteFile(profOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", profOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "write the markdown profile to a file")
}
