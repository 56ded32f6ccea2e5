package extract

import (
	"strings"
	"unicode"
)

// fillerKeywords are substrings marking a candidate as placeholder noise
var fillerKeywords = []string{"comment", "filler", "n/a", "none", "tbd", "todo"}

// thingTypes are entity types admitted without further text criteria
var thingTypes = map[string]bool{
	"person":    true,
	"workgroup": true,
	"doc":       true,
	"document":  true,
	"meeting":   true,
	"decision":  true,
	"action":    true,
}

// ShouldExtractEntity decides whether a candidate string becomes a stored
// entity. Empty and filler-keyword candidates are always rejected. The
// remaining criteria are OR-combined, any one passing admits the candidate:
// the entity type is a known "thing" type, the candidate is known to recur
// across multiple meetings, the text is alphanumeric of length >= 2, or the
// text contains at least one word of length >= 3. The filter suppresses
// obvious noise while erring toward over-inclusion.
func ShouldExtractEntity(text string, entityType string, recurring bool) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	lowered := strings.ToLower(trimmed)
	for _, keyword := range fillerKeywords {
		if strings.Contains(lowered, keyword) {
			return false
		}
	}

	if thingTypes[strings.ToLower(entityType)] {
		return true
	}
	if recurring {
		return true
	}
	if len(trimmed) >= 2 && isAlphanumeric(trimmed) {
		return true
	}
	return hasWordOfLength(trimmed, 3)
}

// isAlphanumeric reports whether s consists of letters, digits and spaces only
func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// hasWordOfLength reports whether s contains a word with at least n runes
func hasWordOfLength(s string, n int) bool {
	for _, word := range strings.Fields(s) {
		if len([]rune(word)) >= n {
			return true
		}
	}
	return false
}
