package ui

import "strings"

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle shortens a string by dropping characters from the middle so
// both ends stay readable. Glob patterns and paths keep their extension.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}

	const ellipsis = "…"
	if limit <= 3 {
		return string(runes[:limit])
	}

	// Keep a short extension such as ".jsonl" or ".{json,zst}" whole.
	if dot := strings.LastIndex(value, "."); dot > strings.LastIndex(value, "/") {
		ext := []rune(value[dot:])
		base := []rune(value[:dot])
		keep := limit - len(ext) - 1
		if len(ext) < limit/2 && keep > 1 {
			prefix := keep / 2
			return string(base[:prefix]) + ellipsis + string(base[len(base)-(keep-prefix):]) + string(ext)
		}
	}

	keep := limit - 1
	prefix := keep / 2
	return string(runes[:prefix]) + ellipsis + string(runes[len(runes)-(keep-prefix):])
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// ternary returns a if cond is true, otherwise b.
func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
