package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/analysis"
	"github.com/KaramelBytes/nearabl-cli/internal/record"
	"github.com/KaramelBytes/nearabl-cli/internal/utils"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/jszwec/csvutil"
	"gopkg.in/yaml.v3"
)

// BarWidth is the length of the longest bar.
const BarWidth = 40

var (
	accent   = lipgloss.AdaptiveColor{Light: "#2A2D77", Dark: "#8F94FB"}
	barStyle = lipgloss.NewStyle().Foreground(accent)
	heading  = lipgloss.NewStyle().Bold(true)
)

// Bars draws the distribution of summary as horizontal bars, largest first.
// Bar length is proportional to the largest count.
func Bars(w io.Writer, field record.Field, summary map[string]int) {
	counts := analysis.SortedCounts(summary, analysis.ByCount)
	fmt.Fprintln(w, heading.Render(fmt.Sprintf("Distribution by %s:", field.Title())))
	if len(counts) == 0 {
		return
	}
	top := counts[0].Count
	labelWidth := 0
	for _, c := range counts {
		if n := lipgloss.Width(c.Value); n > labelWidth {
			labelWidth = n
		}
	}
	for _, c := range counts {
		n := c.Count * BarWidth / top
		if n == 0 {
			n = 1
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(c.Value))
		fmt.Fprintf(w, "%s%s %s %d\n", c.Value, pad, barStyle.Render(strings.Repeat("█", n)), c.Count)
	}
}

// List prints one "value: count" line per category in alphabetical order.
func List(w io.Writer, field record.Field, summary map[string]int) {
	fmt.Fprintln(w, heading.Render(fmt.Sprintf("People per %s:", field.Title())))
	for _, c := range analysis.SortedCounts(summary, analysis.ByKey) {
		fmt.Fprintf(w, "%s: %d\n", c.Value, c.Count)
	}
}

// Summary writes the counts in one of the tabular formats.
func Summary(w io.Writer, field record.Field, counts []analysis.CategoryCount, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if counts == nil {
		counts = []analysis.CategoryCount{}
	}
	switch f {
	case FormatJSON:
		b, err := utils.PrettyJSON(counts)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatCSV:
		b, err := csvutil.Marshal(counts)
		if err != nil {
			return fmt.Errorf("marshal csv: %w", err)
		}
		_, err = w.Write(b)
		return err
	case FormatYAML:
		b, err := yaml.Marshal(counts)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{field.Label(), "count"})
	total := 0
	for _, c := range counts {
		t.AppendRow(table.Row{c.Value, c.Count})
		total += c.Count
	}
	t.AppendFooter(table.Row{"total", total})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight}})
	if f == FormatMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	return nil
}
