package searchapi

import (
	"regexp"
	"strconv"
)

var unicodeEscape = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)

// UnescapeUnicode replaces \uXXXX escape sequences with their literal
// characters, repeating until no match remains. Only exact 4-hex-digit
// forms are recognized; anything else is left untouched. Lone surrogate
// code units decode to U+FFFD per Go string conversion rules.
func UnescapeUnicode(s string) string {
	for {
		loc := unicodeEscape.FindStringSubmatchIndex(s)
		if loc == nil {
			return s
		}
		code, err := strconv.ParseUint(s[loc[2]:loc[3]], 16, 32)
		if err != nil {
			// Unreachable given the pattern, but never loop on it.
			return s
		}
		s = s[:loc[0]] + string(rune(code)) + s[loc[1]:]
	}
}
