package enrich

import "strings"

// cuisineTable scores documents by keyword hits. Table order breaks ties,
// so detection is deterministic for identical input.
var cuisineTable = []struct {
	Name     string
	Keywords []string
}{
	{"italian", []string{"pasta", "pizza", "risotto", "marinara", "parmesan", "lasagna", "tiramisu", "bruschetta"}},
	{"chinese", []string{"wok", "dim sum", "szechuan", "dumpling", "chow mein", "kung pao", "lo mein"}},
	{"japanese", []string{"sushi", "ramen", "tempura", "sashimi", "miso", "teriyaki", "udon"}},
	{"mexican", []string{"taco", "burrito", "salsa", "quesadilla", "enchilada", "guacamole", "fajita"}},
	{"indian", []string{"curry", "tandoori", "masala", "naan", "biryani", "paneer", "samosa"}},
	{"thai", []string{"pad thai", "lemongrass", "tom yum", "satay", "green curry", "thai basil"}},
	{"french", []string{"croissant", "bistro", "baguette", "brie", "coq au vin", "ratatouille", "crepe"}},
	{"american", []string{"burger", "bbq", "fries", "wings", "steakhouse", "milkshake", "mac and cheese"}},
}

// DetectCuisine scores text against the cuisine keyword table and returns
// the winner with confidence = hits / keywords checked for that cuisine.
// Returns ok=false when no cuisine scores a single hit.
func DetectCuisine(text string) (name string, confidence float64, ok bool) {
	lower := strings.ToLower(text)
	best := 0
	for _, cuisine := range cuisineTable {
		hits := 0
		for _, kw := range cuisine.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		// Strictly greater keeps earlier table entries on ties.
		if hits > best {
			best = hits
			name = cuisine.Name
			confidence = float64(hits) / float64(len(cuisine.Keywords))
		}
	}
	return name, confidence, best > 0
}
