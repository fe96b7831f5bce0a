package utils

// Truncate shortens text to at most limit runes, ending with an ellipsis
// when something was cut.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

// OrDefault returns def when s is empty.
func OrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
