package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/record"
)

// maxTopValues caps the categories listed per field.
const maxTopValues = 8

// FieldProfile captures fill rate and value spread of one field.
type FieldProfile struct {
	Field     record.Field    `json:"field" yaml:"field"`
	NonEmpty  int             `json:"non_empty" yaml:"non_empty"`
	Missing   int             `json:"missing" yaml:"missing"`
	Unique    int             `json:"unique" yaml:"unique"`
	TopValues []CategoryCount `json:"top_values" yaml:"top_values"`
}

// Report is a markdown-friendly profile of a dataset.
type Report struct {
	Source   string
	Rows     int
	Fields   []FieldProfile
	Warnings []string
}

// Profile computes a FieldProfile for every field in canonical order.
func Profile(records record.Dataset) []FieldProfile {
	out := make([]FieldProfile, 0, record.Count())
	for _, f := range record.Fields() {
		p := FieldProfile{Field: f}
		cats := make(map[string]int)
		for _, r := range records {
			v := r.Value(f)
			if v == "" {
				p.Missing++
				continue
			}
			p.NonEmpty++
			cats[v]++
		}
		p.Unique = len(cats)
		tops := SortedCounts(cats, ByCount)
		if len(tops) > maxTopValues {
			tops = tops[:maxTopValues]
		}
		p.TopValues = tops
		out = append(out, p)
	}
	return out
}

// NewReport profiles records and attaches notes for unusual shapes.
func NewReport(src string, records record.Dataset, dropped int) *Report {
	rep := &Report{Source: src, Rows: len(records), Fields: Profile(records)}
	if dropped > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d rows were dropped while decoding", dropped))
	}
	for _, p := range rep.Fields {
		if rep.Rows > 0 && p.Missing == rep.Rows {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("field %s is empty in every row", p.Field))
		}
	}
	return rep
}

// Markdown renders a compact report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET PROFILE]\n")
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", r.Source))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Fields: %d\n\n", len(r.Fields)))

	b.WriteString("[FIELDS]\n")
	for _, p := range r.Fields {
		total := p.NonEmpty + p.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(p.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: non-empty %d, missing %.1f%%, unique %d", p.Field, p.NonEmpty, missPct, p.Unique))
		if len(p.TopValues) > 0 {
			b.WriteString("; top: ")
			for i, kv := range p.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
		}
		b.WriteString("\n")
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
