package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/record"
	"github.com/KaramelBytes/nearabl-cli/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jszwec/csvutil"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Records and Summary.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatYAML     = "yaml"
)

// emptyCell stands in for missing values in tables.
const emptyCell = "-"

// Formats lists the accepted output formats.
func Formats() []string {
	return []string{FormatTable, FormatMarkdown, FormatJSON, FormatCSV, FormatYAML}
}

// ParseFormat normalizes a format name; "md" and "yml" are accepted aliases.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "":
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	case FormatTable, FormatMarkdown, FormatJSON, FormatCSV, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format: %s (use %s)", s, strings.Join(Formats(), "|"))
}

// Records writes ds to w in the given format.
func Records(w io.Writer, ds record.Dataset, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	switch f {
	case FormatJSON:
		if ds == nil {
			ds = record.Dataset{}
		}
		b, err := utils.PrettyJSON(ds)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatCSV:
		b, err := csvutil.Marshal(ds)
		if err != nil {
			return fmt.Errorf("marshal csv: %w", err)
		}
		_, err = w.Write(b)
		return err
	case FormatYAML:
		if ds == nil {
			ds = record.Dataset{}
		}
		b, err := yaml.Marshal(ds)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case FormatMarkdown:
		recordTable(w, ds).RenderMarkdown()
		return nil
	default:
		recordTable(w, ds).Render()
		return nil
	}
}

func recordTable(w io.Writer, ds record.Dataset) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, record.Count())
	for _, f := range record.Fields() {
		header = append(header, f.Label())
	}
	t.AppendHeader(header)

	for _, r := range ds {
		row := make(table.Row, 0, record.Count())
		for _, v := range r.Values() {
			row = append(row, utils.OrDefault(v, emptyCell))
		}
		t.AppendRow(row)
	}
	return t
}
