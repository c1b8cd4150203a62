// Package sanitizer cleans Telegram profile fields before they are stored
// in sessions or rendered into pages.
//
// Transforms are plain func(string) string values combined with Apply or
// Compose:
//
//	first := sanitizer.Name(data.FirstName)
//	slug := sanitizer.Apply(raw, sanitizer.Trim, sanitizer.MaxRunes(32))
package sanitizer
