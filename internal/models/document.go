// Package models defines core data structures for documents, chunks, and run results.
package models

// SourceKind identifies the kind of raw source a document was ingested from.
// The storage directory layout is the sole signal for kind assignment.
type SourceKind string

const (
	KindTabular    SourceKind = "tabular"
	KindObject     SourceKind = "object"
	KindOfficeText SourceKind = "office_text"
	KindPDFText    SourceKind = "pdf_text"
	KindMarkup     SourceKind = "markup"
)

// Document is one ingested logical unit of source content: a CSV row, a JSON
// element, or a whole office/PDF/markdown file. The transformer enriches it
// in place; it is never mutated after entering the chunker.
type Document struct {
	ID         string            `json:"id"`
	SourceKind SourceKind        `json:"source_kind"`
	Origin     string            `json:"origin"`
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata"`
}

// SetMeta sets a metadata field, allocating the map on first use.
func (d *Document) SetMeta(key, value string) {
	if d.Metadata == nil {
		d.Metadata = make(map[string]string)
	}
	d.Metadata[key] = value
}

// Meta returns the metadata value for key, or "" when absent.
func (d *Document) Meta(key string) string {
	return d.Metadata[key]
}
