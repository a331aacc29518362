package router

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/models"
)

func defaultRouter() *Router {
	return NewRouter(config.Default().Collections)
}

func TestCollectionLookup(t *testing.T) {
	r := defaultRouter()
	tests := []struct {
		kind models.SourceKind
		want string
	}{
		{models.KindTabular, "coupons"},
		{models.KindObject, "restaurants"},
		{models.KindOfficeText, "allergens"},
		{models.KindPDFText, "menus"},
		{models.KindMarkup, "menus"},
	}
	for _, tt := range tests {
		got, err := r.Collection(tt.kind)
		if err != nil {
			t.Fatalf("Collection(%s): %v", tt.kind, err)
		}
		if got != tt.want {
			t.Errorf("Collection(%s) = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestCollectionUnknownKind(t *testing.T) {
	_, err := defaultRouter().Collection(models.SourceKind("audio"))
	if !errors.Is(err, ErrUnroutable) {
		t.Errorf("err = %v, want ErrUnroutable", err)
	}
}

func TestCollectionsDistinct(t *testing.T) {
	names := defaultRouter().Collections()
	sort.Strings(names)
	want := []string{"allergens", "coupons", "menus", "restaurants"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestRouteGroupsByCollection(t *testing.T) {
	docs := []*models.Document{
		{ID: "doc_0000", SourceKind: models.KindPDFText},
		{ID: "doc_0001", SourceKind: models.KindMarkup},
		{ID: "doc_0002", SourceKind: models.KindTabular},
	}
	chunks := []models.Chunk{
		{ID: "doc_0000_0", DocumentID: "doc_0000", Text: "a"},
		{ID: "doc_0001_0", DocumentID: "doc_0001", Text: "b"},
		{ID: "doc_0002_0", DocumentID: "doc_0002", Text: "c"},
	}
	grouped := defaultRouter().Route(docs, chunks)
	if len(grouped["menus"]) != 2 {
		t.Errorf("menus = %d chunks, want 2", len(grouped["menus"]))
	}
	if len(grouped["coupons"]) != 1 {
		t.Errorf("coupons = %d chunks, want 1", len(grouped["coupons"]))
	}
}

func TestRouteDropsOrphans(t *testing.T) {
	chunks := []models.Chunk{{ID: "x_0", DocumentID: "x", Text: "orphan"}}
	grouped := defaultRouter().Route(nil, chunks)
	if len(grouped) != 0 {
		t.Errorf("orphan chunk routed: %v", grouped)
	}
}

func TestOptimizeMenus(t *testing.T) {
	chunk := models.Chunk{
		Text: "Lasagna - $15.00",
		Metadata: map[string]string{
			"restaurant": "Luigis",
			"cuisine":    "italian",
			"section":    "MAIN COURSES",
		},
	}
	got := Optimize("menus", chunk)
	for _, want := range []string{"Restaurant: Luigis", "Cuisine: italian", "Section: MAIN COURSES"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if !strings.HasSuffix(got, "\n\nLasagna - $15.00") {
		t.Errorf("original text not preserved: %q", got)
	}
}

func TestOptimizeCoupons(t *testing.T) {
	chunk := models.Chunk{
		Text:     "discount: 20%",
		Metadata: map[string]string{"discount": "20%", "code": "SAVE20"},
	}
	got := Optimize("coupons", chunk)
	if !strings.Contains(got, "Discount: 20%") || !strings.Contains(got, "Code: SAVE20") {
		t.Errorf("got %q", got)
	}
}

func TestOptimizeAbsentFieldsOmitted(t *testing.T) {
	chunk := models.Chunk{Text: "body", Metadata: map[string]string{"restaurant": "Sora"}}
	got := Optimize("menus", chunk)
	if strings.Contains(got, "Cuisine") || strings.Contains(got, "Section") {
		t.Errorf("absent fields rendered: %q", got)
	}
	if got != "Restaurant: Sora\n\nbody" {
		t.Errorf("got %q", got)
	}
}

func TestOptimizeUnknownCollectionPassthrough(t *testing.T) {
	chunk := models.Chunk{Text: "body", Metadata: map[string]string{"restaurant": "Sora"}}
	if got := Optimize("notes", chunk); got != "body" {
		t.Errorf("got %q", got)
	}
}
