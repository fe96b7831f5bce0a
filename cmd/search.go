package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/analysis"
	"github.com/KaramelBytes/nearabl-cli/internal/record"
	"github.com/KaramelBytes/nearabl-cli/internal/render"
	"github.com/KaramelBytes/nearabl-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	searchField  string
	searchFormat string
	searchOut    string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the dataset by a field (case-insensitive substring match)",
	Long: `Search keeps the records whose value at --field contains the query, ignoring case.
An empty query lists every record. A single match on first_name or company_name
is shown as a detail card instead of a table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := record.ParseField(orConfig(searchField, cfg.SearchField))
		if err != nil {
			return fmt.Errorf("invalid --field: %w (use one of %s)", err, strings.Join(record.FieldNames(), ", "))
		}
		format, err := render.ParseFormat(orConfig(searchFormat, cfg.OutputFormat))
		if err != nil {
			return err
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		res, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		matches := analysis.Filter(res.Records, field, query)
		status := render.StatusLine(len(matches), len(res.Records), res.UsedFallback)

		if searchOut != "" {
			var buf bytes.Buffer
			if err := render.Records(&buf, matches, format); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(searchOut, buf.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), status)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d records to %s\n", len(matches), searchOut)
			return nil
		}

		out := cmd.OutOrStdout()
		if format != render.FormatTable && format != render.FormatMarkdown {
			// Machine formats keep stdout clean.
			fmt.Fprintln(cmd.ErrOrStderr(), status)
			return render.Records(out, matches, format)
		}
		fmt.Fprintln(out, status)
		return writeMatches(out, matches, field, format)
	},
}

func writeMatches(w io.Writer, matches record.Dataset, field record.Field, format string) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, render.NoMatches)
		return err
	}
	if kind := render.CardFor(field, len(matches)); kind != render.NoCard {
		_, err := fmt.Fprintln(w, render.Card(matches[0], kind))
		return err
	}
	return render.Records(w, matches, format)
}

// orConfig prefers an explicit flag value over the configured default.
func orConfig(flag, configured string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return configured
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchField, "field", "f", "", "field to search (default from config, e.g. state)")
	searchCmd.Flags().StringVarP(&searchFormat, "output", "o", "", "output format: table|markdown|json|csv|yaml")
	searchCmd.Flags().StringVar(&searchOut, "out", "", "write results to a file instead of stdout")
}
