// Package textutil provides text parsing and display helpers for Perch.
//
// These helpers are used for flattening post bodies into single feed
// rows, extracting hashtags for the hashtag lens, and routing search
// bar input (@handle vs #tag vs free text).
package textutil

import (
	"regexp"
	"strings"
)

var (
	reNewlines = regexp.MustCompile(`[\r\n]+`)
	reHashtag  = regexp.MustCompile(`#([A-Za-z0-9_]+)`)
	reHandle   = regexp.MustCompile(`^(?i)@([a-z0-9_]+)$`)
)

// CollapseNewlines replaces runs of newlines with a return marker so a
// multi-line post body fits on a single feed row.
func CollapseNewlines(s string) string {
	return reNewlines.ReplaceAllString(s, "⏎ ")
}

// Hashtags returns the lowercased hashtags in a post body, without the
// leading '#', in order of first appearance, deduplicated.
func Hashtags(s string) []string {
	matches := reHashtag.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var tags []string
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// HasHashtag reports whether a post body contains the given hashtag
// (case-insensitive, compared without the leading '#').
func HasHashtag(s, tag string) bool {
	tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
	for _, t := range Hashtags(s) {
		if t == tag {
			return true
		}
	}
	return false
}

// ParseHandle extracts the username from an "@handle" search term.
// Returns false if the term is not a bare handle.
func ParseHandle(term string) (string, bool) {
	m := reHandle.FindStringSubmatch(term)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

// Truncate cuts a string to maxLen runes and appends "…" if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}
