package chunker

import (
	"strings"

	"github.com/hyperjump/kondate/internal/enrich"
	"github.com/hyperjump/kondate/internal/models"
)

// Policy is the closed set of chunking policies. Classification happens
// once per document; the selected policy drives all splitting.
type Policy int

const (
	// MenuChunking applies to documents carrying at least one dollar amount.
	MenuChunking Policy = iota
	// SectionChunking applies to documents with recognized section headings
	// but no dollar amounts.
	SectionChunking
	// SemanticChunking applies to everything else.
	SemanticChunking
)

// Classify selects the chunking policy for a document by structural shape.
func Classify(doc *models.Document) Policy {
	if enrich.HasDollarAmount(doc.Text) {
		return MenuChunking
	}
	if len(enrich.FoundSections(doc.Text)) > 0 {
		return SectionChunking
	}
	return SemanticChunking
}

// section is one heading-delimited span of a document. Name is "" for text
// preceding the first heading.
type section struct {
	Name string
	Body string
}

// splitSections splits normalized text on canonical heading lines.
func splitSections(text string) []section {
	var sections []section
	current := section{}
	var body []string
	flush := func() {
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Name != "" || current.Body != "" {
			sections = append(sections, current)
		}
		body = nil
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if enrich.CanonicalSection(trimmed) == trimmed && trimmed != "" {
			flush()
			current = section{Name: trimmed}
			continue
		}
		body = append(body, line)
	}
	flush()
	return sections
}
