package enrich

import (
	"regexp"
	"strings"
)

// reRestaurantName matches a capitalized multi-word span: each word starts
// with a capital followed by lowercase, so all-caps section headings like
// MAIN COURSES do not qualify.
var reRestaurantName = regexp.MustCompile(`[A-Z][a-z]+(?: [A-Z][a-z]+)+`)

// nameScanWindow bounds how far into the document the name search looks.
// Restaurant names appear near the top of menus; deeper matches are more
// likely dish names.
const nameScanWindow = 200

// ExtractRestaurantName returns the first strong restaurant-name candidate
// near the document start, or "" when none is found.
func ExtractRestaurantName(text string) string {
	window := text
	if len(window) > nameScanWindow {
		window = window[:nameScanWindow]
	}
	return reRestaurantName.FindString(window)
}

// Slug normalizes a name for exact-match filtering: lowercase with spaces
// as underscores.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
