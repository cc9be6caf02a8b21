package model

import (
	"regexp"
	"strings"
	"unicode"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabeler converts a field name into a human-friendly label, splitting
// on underscores, dashes, and camelCase boundaries ("firstName" -> "First Name").
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		for _, part := range splitCamel(word) {
			segments = append(segments, titleCase(part))
		}
	}
	return strings.Join(segments, " ")
}

func splitCamel(input string) []string {
	var (
		parts   []string
		current []rune
		prev    rune
	)
	for i, r := range input {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			parts = append(parts, string(current))
			current = current[:0]
		}
		current = append(current, r)
		prev = r
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}

func titleCase(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
