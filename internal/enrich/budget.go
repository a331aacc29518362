package enrich

import (
	"encoding/json"
	"sort"
)

// dropOrder lists metadata fields from least to most critical. When the
// serialized map exceeds the budget, fields are dropped in this order before
// any value truncation. Partial metadata is preferred over losing a chunk.
var dropOrder = []string{
	"search_tags",
	"menu_items",
	"sections",
	"cuisine_confidence",
	"avg_price",
	"min_price",
	"max_price",
	"price_tier",
	"dietary_labels",
	"valid_until",
	"terms",
	"dish_name",
	"file_name",
}

// truncatedValueLen is the per-value cap applied after field dropping.
const truncatedValueLen = 64

// SerializedSize returns the length of the JSON serialization of m.
// json.Marshal sorts map keys, so the size is deterministic.
func SerializedSize(m map[string]string) int {
	data, err := json.Marshal(m)
	if err != nil {
		return 0
	}
	return len(data)
}

// EnforceBudget destructively shrinks m until its serialized size fits the
// budget: drop non-critical fields in fixed priority order, then truncate
// long values, then drop remaining fields in sorted key order. Deterministic
// and idempotent for identical input.
func EnforceBudget(m map[string]string, budget int) {
	if SerializedSize(m) <= budget {
		return
	}
	for _, key := range dropOrder {
		if _, ok := m[key]; !ok {
			continue
		}
		delete(m, key)
		if SerializedSize(m) <= budget {
			return
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(m[k]) > truncatedValueLen {
			m[k] = m[k][:truncatedValueLen]
		}
		if SerializedSize(m) <= budget {
			return
		}
	}
	for _, k := range keys {
		delete(m, k)
		if SerializedSize(m) <= budget {
			return
		}
	}
}
