package sanitizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NFC normalizes s to Unicode canonical composition so visually equal
// names compare equal. Invalid UTF-8 sequences are dropped first.
func NFC(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return norm.NFC.String(s)
}

// StripControl removes control and format characters, including
// bidirectional overrides, keeping ordinary spaces.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// CollapseWhitespace replaces every whitespace run with a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MaxRunes returns a transform truncating s to at most n runes.
func MaxRunes(n int) func(string) string {
	return func(s string) string {
		if n <= 0 {
			return ""
		}
		if utf8.RuneCountInString(s) <= n {
			return s
		}
		runes := []rune(s)
		return string(runes[:n])
	}
}
