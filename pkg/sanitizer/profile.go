package sanitizer

import (
	"net/url"
	"strings"
)

// MaxNameLength bounds first and last names; Telegram allows 64 characters.
const MaxNameLength = 64

// Name cleans a display name received from Telegram.
var Name = Compose(NFC, StripControl, CollapseWhitespace, MaxRunes(MaxNameLength))

// Username strips a leading "@" and anything outside the Telegram
// username alphabet [A-Za-z0-9_]. Case is preserved.
func Username(s string) string {
	s = strings.TrimPrefix(Trim(s), "@")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, s)
}

// PhotoURL returns s when it is an absolute https URL, otherwise "".
func PhotoURL(s string) string {
	s = Trim(s)
	u, err := url.Parse(s)
	if err != nil || u.Scheme != "https" || u.Host == "" || u.User != nil {
		return ""
	}
	return u.String()
}
