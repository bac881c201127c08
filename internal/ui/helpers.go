package ui

import "strings"

// spaces returns n spaces (none for n <= 0).
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// padRight pads s with spaces to at least width cells.
func padRight(s string, width int) string {
	return s + spaces(width-len([]rune(s)))
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// printable reports whether a key string is a single printable rune,
// the kind that belongs in a text input.
func printable(key string) bool {
	runes := []rune(key)
	return len(runes) == 1 && runes[0] >= ' '
}
