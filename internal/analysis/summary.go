package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/record"
)

// UnknownKey groups records whose value at the summary field is empty.
const UnknownKey = "Unknown"

// SummaryFields are the grouping fields offered by default.
func SummaryFields() []record.Field {
	return []record.Field{record.State, record.Zip, record.County, record.City}
}

// Summarize counts records per distinct value of field. The counts always
// add up to len(records).
func Summarize(records record.Dataset, field record.Field) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		key := r.Value(field)
		if key == "" {
			key = UnknownKey
		}
		out[key]++
	}
	return out
}

// CategoryCount is one entry of a summary in presentation order.
type CategoryCount struct {
	Value string `csv:"value" json:"value" yaml:"value"`
	Count int    `csv:"count" json:"count" yaml:"count"`
}

// SortOrder selects how SortedCounts orders entries.
type SortOrder int

const (
	// ByCount sorts by descending count, ties by value.
	ByCount SortOrder = iota
	// ByKey sorts alphabetically by value.
	ByKey
)

// ParseSortOrder accepts "count" or "key" (also "value", "alpha").
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "count":
		return ByCount, nil
	case "key", "value", "alpha":
		return ByKey, nil
	}
	return ByCount, fmt.Errorf("unsupported sort order: %s (use count|key)", s)
}

// SortedCounts flattens a summary map into a stable slice.
func SortedCounts(m map[string]int, order SortOrder) []CategoryCount {
	out := make([]CategoryCount, 0, len(m))
	for k, v := range m {
		out = append(out, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if order == ByCount && out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Total sums the counts of a summary.
func Total(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
