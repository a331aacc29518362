package enrich

import (
	"strings"
	"testing"

	"github.com/hyperjump/kondate/internal/models"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces", "a   b\t\tc", "a b c"},
		{"collapses newlines", "a\n\n\n\nb", "a\nb"},
		{"strips disallowed", "café %menu* @8", "caf menu 8"},
		{"keeps punctuation set", "Soup - $4.50, good!", "Soup - $4.50, good!"},
		{"trims", "  hello  ", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	in := "Luigi's  Pasta\n\n\nAntipasti   $9.5"
	once := CleanText(in)
	if twice := CleanText(once); twice != once {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeSections(t *testing.T) {
	text := "Starters\nBruschetta $8\nMain Dishes\nLasagna $15\nDolci\nTiramisu $7\nWine List\nChianti $9"
	got := NormalizeSections(text)
	for _, want := range []string{"APPETIZERS", "MAIN COURSES", "DESSERTS", "BEVERAGES"} {
		if !strings.Contains(got, want+"\n") {
			t.Errorf("missing canonical heading %s in %q", want, got)
		}
	}
	// Body lines mentioning a keyword are not headings.
	body := NormalizeSections("Our dessert selection changes daily and pairs with every wine we pour")
	if strings.Contains(body, "DESSERTS") {
		t.Errorf("body line rewritten as heading: %q", body)
	}
	if again := NormalizeSections(got); again != got {
		t.Errorf("not idempotent: %q vs %q", got, again)
	}
}

func TestStandardizeCurrency(t *testing.T) {
	text := "Pasta $12.5 Soup $8 Steak $30.00"
	got, prices := StandardizeCurrency(text)
	want := "Pasta $12.50 Soup $8.00 Steak $30.00"
	if got != want {
		t.Errorf("standardized = %q, want %q", got, want)
	}
	if len(prices) != 3 || prices[0] != 12.5 || prices[1] != 8 || prices[2] != 30 {
		t.Errorf("prices = %v", prices)
	}
	again, _ := StandardizeCurrency(got)
	if again != got {
		t.Errorf("not idempotent: %q vs %q", got, again)
	}
}

func TestPriceTier(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{10, "budget"}, {14.99, "budget"}, {15, "moderate"}, {30, "moderate"},
		{30.01, "upscale"}, {50, "upscale"}, {51, "luxury"},
	}
	for _, tt := range tests {
		if got := PriceTier(tt.avg); got != tt.want {
			t.Errorf("PriceTier(%v) = %s, want %s", tt.avg, got, tt.want)
		}
	}
}

func TestDietaryLabels(t *testing.T) {
	labels := DietaryLabels("We offer Vegetarian dishes and gluten free bread")
	if len(labels) != 2 || labels[0] != "vegetarian" || labels[1] != "gluten-free" {
		t.Errorf("labels = %v", labels)
	}
	if got := DietaryLabels("vegans love it"); got != nil {
		t.Errorf("word boundary not respected: %v", got)
	}
}

func TestExtractMenuItems(t *testing.T) {
	text := "APPETIZERS\nBruschetta al Pomodoro $8.50\nSoup of the Day - $6\nCaesar Salad: $9.25"
	items := ExtractMenuItems(text)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %v", items)
	}
	want := []models.MenuItem{
		{Name: "Bruschetta al Pomodoro", Price: "8.50"},
		{Name: "Soup of the Day", Price: "6.00"},
		{Name: "Caesar Salad", Price: "9.25"},
	}
	for i, w := range want {
		if items[i] != w {
			t.Errorf("item %d = %+v, want %+v", i, items[i], w)
		}
	}
}

func TestExtractRestaurantName(t *testing.T) {
	if got := ExtractRestaurantName("Golden Dragon Palace\nAPPETIZERS\nSpring Rolls $5.00"); got != "Golden Dragon Palace" {
		t.Errorf("name = %q", got)
	}
	if got := ExtractRestaurantName("MAIN COURSES\nsome text"); got != "" {
		t.Errorf("all-caps heading matched as name: %q", got)
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("Golden Dragon Palace"); got != "golden_dragon_palace" {
		t.Errorf("Slug = %q", got)
	}
}

func TestDetectCuisine(t *testing.T) {
	name, confidence, ok := DetectCuisine("pasta with marinara, pizza, and tiramisu")
	if !ok || name != "italian" {
		t.Fatalf("cuisine = %s ok=%v", name, ok)
	}
	if confidence <= 0 || confidence > 1 {
		t.Errorf("confidence = %f", confidence)
	}
	if _, _, ok := DetectCuisine("nothing culinary here"); ok {
		t.Error("expected no cuisine")
	}
	// One hit each for italian and japanese: first table order wins.
	name, _, _ = DetectCuisine("sushi and pizza")
	if name != "italian" {
		t.Errorf("tie break = %s, want italian", name)
	}
}

func TestEnforceBudget(t *testing.T) {
	m := map[string]string{
		"restaurant":  "Luigi",
		"search_tags": strings.Repeat("cuisine:italian,", 100),
		"menu_items":  strings.Repeat("x", 500),
	}
	EnforceBudget(m, 200)
	if SerializedSize(m) > 200 {
		t.Errorf("size = %d after enforcement", SerializedSize(m))
	}
	if _, ok := m["restaurant"]; !ok {
		t.Error("critical field dropped before non-critical ones")
	}
	// Idempotent: enforcing again changes nothing.
	before := SerializedSize(m)
	EnforceBudget(m, 200)
	if SerializedSize(m) != before {
		t.Error("not idempotent")
	}
}

func TestEnforceBudgetAdversarial(t *testing.T) {
	m := map[string]string{"restaurant": strings.Repeat("A", 5000)}
	EnforceBudget(m, 800)
	if SerializedSize(m) > 800 {
		t.Errorf("size = %d", SerializedSize(m))
	}
}

func TestTransformSpecifiedPrices(t *testing.T) {
	doc := &models.Document{ID: "d1", Text: "Pasta $12.5 Soup $8 Steak $30.00"}
	NewTransformer(800).Transform(doc)
	if doc.Meta("min_price") != "8.00" || doc.Meta("max_price") != "30.00" || doc.Meta("avg_price") != "16.83" {
		t.Errorf("price metadata = %v", doc.Metadata)
	}
	if !strings.Contains(doc.Text, "$12.50") {
		t.Errorf("text not standardized: %q", doc.Text)
	}
}

func TestTransformDietary(t *testing.T) {
	doc := &models.Document{ID: "d2", Text: "Vegetarian options and Gluten Free pasta available"}
	NewTransformer(800).Transform(doc)
	labels := doc.Meta("dietary_labels")
	if !strings.Contains(labels, "vegetarian") || !strings.Contains(labels, "gluten-free") {
		t.Errorf("dietary_labels = %q", labels)
	}
	if doc.Meta("dietary_friendly") != "true" {
		t.Errorf("dietary_friendly = %q", doc.Meta("dietary_friendly"))
	}
}

func TestTransformMetadataWithinBudget(t *testing.T) {
	doc := &models.Document{
		ID:   "d3",
		Text: strings.Repeat("Bruschetta al Pomodoro con Basilico $8.50\n", 200),
	}
	NewTransformer(800).Transform(doc)
	if size := SerializedSize(doc.Metadata); size > 800 {
		t.Errorf("metadata size = %d, want <= 800", size)
	}
}

func TestTransformUsesFilenameHint(t *testing.T) {
	doc := &models.Document{
		ID:       "d4",
		Text:     "no names here, just lowercase text",
		Metadata: map[string]string{"restaurant": "Marios Italian Menu"},
	}
	NewTransformer(800).Transform(doc)
	if doc.Meta("restaurant_slug") != "marios_italian_menu" {
		t.Errorf("slug = %q", doc.Meta("restaurant_slug"))
	}
}

func TestTransformSearchTags(t *testing.T) {
	doc := &models.Document{
		ID:   "d5",
		Text: "Starters\nBruschetta with pizza flavors $8.00\nvegan friendly",
	}
	NewTransformer(800).Transform(doc)
	tags := doc.Meta("search_tags")
	for _, want := range []string{"section:appetizers", "cuisine:italian", "dietary:vegan"} {
		if !strings.Contains(tags, want) {
			t.Errorf("search_tags %q missing %q", tags, want)
		}
	}
}
