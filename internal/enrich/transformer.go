package enrich

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperjump/kondate/internal/models"
	"go.uber.org/zap"
)

// Transformer cleans and enriches documents. Transform is applied
// independently per document with no cross-document state, so documents may
// be transformed in any order.
type Transformer struct {
	metadataLimit int
	logger        *zap.Logger
}

// TransformerOption configures a Transformer.
type TransformerOption func(*Transformer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) TransformerOption {
	return func(t *Transformer) { t.logger = l }
}

// NewTransformer creates a transformer enforcing the given serialized
// metadata budget in characters.
func NewTransformer(metadataLimit int, opts ...TransformerOption) *Transformer {
	t := &Transformer{metadataLimit: metadataLimit, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform enriches doc in place, running every step in fixed order. Steps
// that find nothing leave their fields absent; only the metadata budget is
// enforced unconditionally.
func (t *Transformer) Transform(doc *models.Document) {
	doc.Text = NormalizeSections(CleanText(doc.Text))

	text, prices := StandardizeCurrency(doc.Text)
	doc.Text = text
	if len(prices) > 0 {
		min, max, avg := priceStats(prices)
		doc.SetMeta("min_price", fmt.Sprintf("%.2f", min))
		doc.SetMeta("max_price", fmt.Sprintf("%.2f", max))
		doc.SetMeta("avg_price", fmt.Sprintf("%.2f", avg))
		doc.SetMeta("price_tier", PriceTier(avg))
	}

	labels := DietaryLabels(doc.Text)
	if len(labels) > 0 {
		doc.SetMeta("dietary_labels", strings.Join(labels, ","))
	}
	doc.SetMeta("dietary_friendly", strconv.FormatBool(len(labels) > 0))

	if items := ExtractMenuItems(doc.Text); len(items) > 0 {
		if encoded, err := json.Marshal(items); err == nil {
			doc.SetMeta("menu_items", string(encoded))
			doc.SetMeta("menu_item_count", strconv.Itoa(len(items)))
		}
	}

	name := ExtractRestaurantName(doc.Text)
	if name == "" {
		name = doc.Meta("restaurant") // filename-derived hint from ingestion
	}
	if name != "" {
		doc.SetMeta("restaurant", name)
		doc.SetMeta("restaurant_slug", Slug(name))
	}

	if cuisine, confidence, ok := DetectCuisine(doc.Text); ok {
		doc.SetMeta("cuisine", cuisine)
		doc.SetMeta("cuisine_confidence", fmt.Sprintf("%.2f", confidence))
	}

	if sections := FoundSections(doc.Text); len(sections) > 0 {
		doc.SetMeta("sections", strings.Join(sections, ","))
	}

	if tags := searchTags(doc); len(tags) > 0 {
		doc.SetMeta("search_tags", strings.Join(tags, ","))
	}

	before := SerializedSize(doc.Metadata)
	EnforceBudget(doc.Metadata, t.metadataLimit)
	if after := SerializedSize(doc.Metadata); after < before {
		t.logger.Debug("metadata budget enforced",
			zap.String("doc_id", doc.ID),
			zap.Int("before", before),
			zap.Int("after", after),
		)
	}
}

// TransformAll transforms each document in place and returns the slice for
// stage chaining.
func (t *Transformer) TransformAll(docs []*models.Document) []*models.Document {
	for _, doc := range docs {
		t.Transform(doc)
	}
	return docs
}

// searchTags synthesizes deduplicated colon-delimited tags from all prior
// enrichment, in a fixed emission order.
func searchTags(doc *models.Document) []string {
	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	for _, section := range strings.Split(doc.Meta("sections"), ",") {
		if section != "" {
			add("section:" + Slug(section))
		}
	}
	if cuisine := doc.Meta("cuisine"); cuisine != "" {
		add("cuisine:" + cuisine)
	}
	if tier := doc.Meta("price_tier"); tier != "" {
		add("price:" + tier)
	}
	for _, label := range strings.Split(doc.Meta("dietary_labels"), ",") {
		if label != "" {
			add("dietary:" + label)
		}
	}
	return tags
}
