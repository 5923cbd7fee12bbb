package util

import (
	"regexp"
	"strings"
)

var (
	// htmlTagPattern matches HTML tags like <span>, </span>, <div>, </div>, etc.
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	// multiSpacePattern matches multiple consecutive whitespace characters
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// CleanName removes markup remnants and normalizes whitespace in a place name.
// Map vendors occasionally ship labels with embedded tags or entities.
func CleanName(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, `<\/`, `</`)
	s = htmlTagPattern.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "_", " ")

	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NameKey returns the case-folded lookup form of a place name.
func NameKey(s string) string {
	return strings.ToLower(CleanName(s))
}
