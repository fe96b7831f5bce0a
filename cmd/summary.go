package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/analysis"
	"github.com/KaramelBytes/nearabl-cli/internal/record"
	"github.com/KaramelBytes/nearabl-cli/internal/render"
	"github.com/spf13/cobra"
)

var (
	sumBy     string
	sumSort   string
	sumBars   bool
	sumList   bool
	sumFormat string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count records per state, zip, county or city",
	Long: `Summary groups the whole dataset by --by and counts records per value.
Records with an empty value are counted under "Unknown".
--bars draws the distribution (largest first), --list prints "People per" counts
alphabetically; without either a table is written in --output format.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := record.ParseField(orConfig(sumBy, cfg.SummaryField))
		if err != nil {
			return fmt.Errorf("invalid --by: %w (use one of %s)", err, strings.Join(record.FieldNames(), ", "))
		}
		order, err := analysis.ParseSortOrder(sumSort)
		if err != nil {
			return err
		}
		format, err := render.ParseFormat(orConfig(sumFormat, cfg.OutputFormat))
		if err != nil {
			return err
		}

		res, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		summary := analysis.Summarize(res.Records, field)
		out := cmd.OutOrStdout()

		if sumBars || sumList {
			if sumBars {
				render.Bars(out, field, summary)
			}
			if sumBars && sumList {
				fmt.Fprintln(out)
			}
			if sumList {
				render.List(out, field, summary)
			}
			return nil
		}
		return render.Summary(out, field, analysis.SortedCounts(summary, order), format)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&sumBy, "by", "", "grouping field: state|zip|county|city (default from config)")
	summaryCmd.Flags().StringVar(&sumSort, "sort", "count", "table order: count|key")
	summaryCmd.Flags().BoolVar(&sumBars, "bars", false, "draw the distribution as bars")
	summaryCmd.Flags().BoolVar(&sumList, "list", false, "list counts per value alphabetically")
	summaryCmd.Flags().StringVarP(&sumFormat, "output", "o", "", "output format: table|markdown|json|csv|yaml")
}
