package translate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxTranslationLen is the longest translation accepted into an item or the
// cache, in runes.
const maxTranslationLen = 240

// markupSubstrings disqualify a translation; the backend occasionally leaks
// markup or links into its output.
var markupSubstrings = []string{"<", ">", "http://", "https://", "www."}

// Acceptable reports whether a translated sentence may be written into an
// item and the cache. Rejected values leave the slot blank instead of
// poisoning the cache.
func Acceptable(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if utf8.RuneCountInString(s) > maxTranslationLen {
		return false
	}

	lower := strings.ToLower(s)
	for _, sub := range markupSubstrings {
		if strings.Contains(lower, sub) {
			return false
		}
	}

	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if letters >= 4 {
				return true
			}
		}
	}
	return false
}
