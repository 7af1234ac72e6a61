package textutil

import "strings"

const ellipsis = "..."

// Truncate shortens value to at most limit runes, appending "..." when
// anything was cut. Whitespace runs collapse to single spaces first.
func Truncate(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + ellipsis
}
