// Package router assigns chunks to target collections by source kind and
// rewrites chunk text with a collection-specific synopsis header before
// indexing.
package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/kondate/internal/models"
	"go.uber.org/zap"
)

// ErrUnroutable reports a source kind with no collection mapping.
var ErrUnroutable = errors.New("no collection for source kind")

// Router maps source kinds to collection names and applies per-collection
// content optimization. The mapping is fixed at construction; routing is a
// pure table lookup.
type Router struct {
	table  map[string]string
	logger *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// NewRouter creates a router over a source-kind to collection table.
func NewRouter(table map[string]string, opts ...Option) *Router {
	r := &Router{table: make(map[string]string, len(table)), logger: zap.NewNop()}
	for kind, collection := range table {
		r.table[kind] = collection
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Collection resolves the target collection for a source kind.
func (r *Router) Collection(kind models.SourceKind) (string, error) {
	collection, ok := r.table[string(kind)]
	if !ok || collection == "" {
		return "", fmt.Errorf("%w: %s", ErrUnroutable, kind)
	}
	return collection, nil
}

// Collections returns the distinct target collection names, in table
// iteration order.
func (r *Router) Collections() []string {
	seen := make(map[string]bool, len(r.table))
	var names []string
	for _, collection := range r.table {
		if !seen[collection] {
			seen[collection] = true
			names = append(names, collection)
		}
	}
	return names
}

// Route groups chunks by target collection, applying the collection's
// content optimizer to each chunk. Chunks whose parent kind has no mapping
// are logged and dropped from the result.
func (r *Router) Route(docs []*models.Document, chunks []models.Chunk) map[string][]models.Chunk {
	kinds := make(map[string]models.SourceKind, len(docs))
	for _, doc := range docs {
		kinds[doc.ID] = doc.SourceKind
	}
	grouped := make(map[string][]models.Chunk)
	for _, chunk := range chunks {
		kind, ok := kinds[chunk.DocumentID]
		if !ok {
			r.logger.Warn("chunk references unknown document, skipping",
				zap.String("chunk_id", chunk.ID),
				zap.String("document_id", chunk.DocumentID))
			continue
		}
		collection, err := r.Collection(kind)
		if err != nil {
			r.logger.Warn("unroutable chunk, skipping",
				zap.String("chunk_id", chunk.ID),
				zap.String("source_kind", string(kind)))
			continue
		}
		chunk.Text = Optimize(collection, chunk)
		grouped[collection] = append(grouped[collection], chunk)
	}
	return grouped
}

// Optimize prepends a synopsis header for the target collection ahead of the
// chunk text. Header lines are built from chunk metadata; absent fields are
// omitted. Unknown collections pass text through unchanged.
func Optimize(collection string, chunk models.Chunk) string {
	var lines []string
	add := func(label, key string) {
		if v := chunk.Metadata[key]; v != "" {
			lines = append(lines, label+": "+v)
		}
	}
	switch collection {
	case "menus":
		add("Restaurant", "restaurant")
		add("Cuisine", "cuisine")
		add("Section", "section")
		add("Price Tier", "price_tier")
	case "coupons":
		add("Restaurant", "restaurant")
		add("Discount", "discount")
		add("Code", "code")
		add("Valid Until", "valid_until")
	case "restaurants":
		add("Restaurant", "restaurant")
		add("Cuisine", "cuisine")
		add("Dish", "dish_name")
	case "allergens":
		add("Restaurant", "restaurant")
		add("Dietary", "dietary_labels")
	}
	if len(lines) == 0 {
		return chunk.Text
	}
	return strings.Join(lines, "\n") + "\n\n" + chunk.Text
}
