package enrich

import "strings"

// sectionFamilies maps heading keyword families to the closed canonical
// vocabulary. Matching is case-insensitive substring over heading-shaped
// lines, not exact match, so "Antipasti", "Starters" and "APPETIZER MENU"
// all normalize to APPETIZERS. First family wins.
var sectionFamilies = []struct {
	Canonical string
	Keywords  []string
}{
	{"APPETIZERS", []string{"appetizer", "starter", "antipasti", "antipasto", "small plate", "tapas"}},
	{"MAIN COURSES", []string{"main course", "main dishes", "mains", "entree", "entrees", "secondi"}},
	{"DESSERTS", []string{"dessert", "dolci", "sweets", "pastries"}},
	{"BEVERAGES", []string{"beverage", "drinks", "wine list", "cocktails", "coffee", "tea"}},
}

// maxHeadingWords bounds how many words a line may have and still be
// considered a section heading. Keeps body sentences that mention "dessert"
// from being rewritten.
const maxHeadingWords = 4

// CanonicalSection returns the canonical label for a heading-shaped line,
// or "" when the line is not a recognized section heading.
func CanonicalSection(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.Contains(line, "$") {
		return ""
	}
	if len(strings.Fields(line)) > maxHeadingWords {
		return ""
	}
	lower := strings.ToLower(line)
	for _, family := range sectionFamilies {
		for _, kw := range family.Keywords {
			if strings.Contains(lower, kw) {
				return family.Canonical
			}
		}
	}
	return ""
}

// NormalizeSections rewrites every recognized free-form section heading to
// its canonical label. Idempotent: canonical labels re-match their own family.
func NormalizeSections(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if canonical := CanonicalSection(line); canonical != "" {
			lines[i] = canonical
		}
	}
	return strings.Join(lines, "\n")
}

// FoundSections returns the canonical sections present as heading lines in
// normalized text, deduplicated, in order of first appearance.
func FoundSections(text string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, family := range sectionFamilies {
			if line == family.Canonical && !seen[line] {
				seen[line] = true
				found = append(found, line)
			}
		}
	}
	return found
}
