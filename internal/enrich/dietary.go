package enrich

import "regexp"

// dietaryKeywords is the fixed label set. Patterns are word-boundary matched
// and tolerate hyphen or space between compound parts ("gluten free" and
// "gluten-free" both map to gluten-free).
var dietaryKeywords = []struct {
	Label   string
	pattern *regexp.Regexp
}{
	{"vegetarian", regexp.MustCompile(`(?i)\bvegetarian\b`)},
	{"vegan", regexp.MustCompile(`(?i)\bvegan\b`)},
	{"gluten-free", regexp.MustCompile(`(?i)\bgluten[-\s]?free\b`)},
	{"dairy-free", regexp.MustCompile(`(?i)\bdairy[-\s]?free\b`)},
	{"nut-free", regexp.MustCompile(`(?i)\bnut[-\s]?free\b`)},
	{"halal", regexp.MustCompile(`(?i)\bhalal\b`)},
	{"kosher", regexp.MustCompile(`(?i)\bkosher\b`)},
}

// DietaryLabels scans text for the fixed dietary keyword set and returns
// matched labels deduplicated in table order (stable across runs).
func DietaryLabels(text string) []string {
	var labels []string
	for _, kw := range dietaryKeywords {
		if kw.pattern.MatchString(text) {
			labels = append(labels, kw.Label)
		}
	}
	return labels
}
