package render

import "fmt"

// NoMatches is shown instead of an empty table.
const NoMatches = "No matching records found"

// StatusLine reports how much of the dataset the current view shows.
func StatusLine(shown, total int, fallback bool) string {
	s := fmt.Sprintf("Showing %d of %d records", shown, total)
	if fallback {
		s += " (using fallback data)"
	}
	return s
}

// FallbackNote explains why the placeholder dataset is on screen.
func FallbackNote(msg string) string {
	return fmt.Sprintf("Note: %s. Using fallback data instead.", msg)
}
