package analysis

import (
	"strings"

	"github.com/KaramelBytes/nearabl-cli/internal/record"
)

// Filter returns the records whose value at field contains query,
// ignoring case. An empty query returns records unchanged. Order is kept.
func Filter(records record.Dataset, field record.Field, query string) record.Dataset {
	if query == "" {
		return records
	}
	q := strings.ToLower(query)
	out := make(record.Dataset, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Value(field)), q) {
			out = append(out, r)
		}
	}
	return out
}
