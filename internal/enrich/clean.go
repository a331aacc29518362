// Package enrich cleans document text and derives structured metadata from
// it: sections, prices, dietary labels, menu items, cuisine, and search
// tags. Every derivation is best-effort per field; a miss leaves the field
// absent rather than failing the document.
package enrich

import (
	"regexp"
	"strings"
)

var (
	// Allow-list: word characters, space, newline, and a fixed punctuation set.
	reDisallowed    = regexp.MustCompile(`[^\w \n\-$.,:;!?()\[\]/]`)
	reSpaceRun      = regexp.MustCompile(`[ \t]+`)
	reSpacedNewline = regexp.MustCompile(` ?\n ?`)
	reNewlineRun    = regexp.MustCompile(`\n{2,}`)
)

// CleanText strips characters outside the allow-list, collapses runs of
// spaces to one space, and collapses consecutive newlines. Idempotent.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = reDisallowed.ReplaceAllString(text, "")
	text = reSpaceRun.ReplaceAllString(text, " ")
	text = reSpacedNewline.ReplaceAllString(text, "\n")
	text = reNewlineRun.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
