package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// punctuationPattern matches everything outside [A-Za-z0-9_] and whitespace.
var punctuationPattern = regexp.MustCompile(`[^\w\s]`)

var lower = cases.Lower(language.Und)

// Normalize removes punctuation and lowercases text for matching.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return lower.String(punctuationPattern.ReplaceAllString(text, ""))
}

// Words splits text on whitespace runs.
func Words(text string) []string {
	return strings.Fields(text)
}

// LastWord returns the normalized form of the last word in text that still
// has content after normalization. Trailing words made only of punctuation
// (a lone "?" or "...") are skipped. The boolean is false when no such word
// exists.
func LastWord(text string) (string, bool) {
	words := Words(text)
	for i := len(words) - 1; i >= 0; i-- {
		if normalized := strings.TrimSpace(Normalize(words[i])); normalized != "" {
			return normalized, true
		}
	}
	return "", false
}
