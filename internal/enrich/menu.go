package enrich

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperjump/kondate/internal/models"
)

// reMenuItem captures "a capitalized phrase not containing $ or newline,
// followed by a dollar amount". The dollar sign is the reliable delimiter;
// internal punctuation in dish names is tolerated.
var reMenuItem = regexp.MustCompile(`([A-Z][^\n$]+?)[\s\-:.]*\$(\d+(?:\.\d{1,2})?)`)

// ExtractMenuItems recovers (name, price) pairs from text. Prices are
// normalized to two decimals regardless of how the source wrote them.
func ExtractMenuItems(text string) []models.MenuItem {
	var items []models.MenuItem
	for _, m := range reMenuItem.FindAllStringSubmatch(text, -1) {
		name := strings.Trim(m[1], " -:.,;")
		if name == "" {
			continue
		}
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		items = append(items, models.MenuItem{
			Name:  name,
			Price: strconv.FormatFloat(v, 'f', 2, 64),
		})
	}
	return items
}
