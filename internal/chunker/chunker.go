package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/embedding"
	"github.com/hyperjump/kondate/internal/enrich"
	"github.com/hyperjump/kondate/internal/models"
	"go.uber.org/zap"
)

// Chunker splits documents into chunks. Stateless across documents: each
// call to ChunkDocument starts fresh, so documents may be processed in any
// order or retried.
type Chunker struct {
	cfg      config.ChunkingConfig
	embedder embedding.Embedder // optional; enables semantic splitting
	logger   *zap.Logger
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithSemanticEmbedder provides an embedder for similarity-based generic
// splitting. Without one, generic documents fall back to fixed-size splits.
func WithSemanticEmbedder(e embedding.Embedder) Option {
	return func(c *Chunker) { c.embedder = e }
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chunker) { c.logger = l }
}

// NewChunker creates a chunker with the given sizing configuration.
func NewChunker(cfg config.ChunkingConfig, opts ...Option) *Chunker {
	c := &Chunker{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChunkDocument classifies doc and applies the selected policy, producing
// ordered chunks. A document with no domain structure produces exactly one
// chunk. Chunks inherit the parent's metadata; chunk_type and the sequence
// index are added, never merged destructively.
func (c *Chunker) ChunkDocument(ctx context.Context, doc *models.Document) []models.Chunk {
	var chunks []models.Chunk
	switch Classify(doc) {
	case MenuChunking:
		chunks = c.chunkMenu(doc)
	case SectionChunking:
		chunks = c.chunkSections(doc)
	default:
		chunks = c.chunkGeneric(ctx, doc)
	}
	if len(chunks) == 0 && strings.TrimSpace(doc.Text) != "" {
		chunks = []models.Chunk{c.newChunk(doc, 0, doc.Text, models.ChunkGeneric)}
	}
	return chunks
}

// ChunkAll chunks every document, preserving document order.
func (c *Chunker) ChunkAll(ctx context.Context, docs []*models.Document) []models.Chunk {
	var all []models.Chunk
	for _, doc := range docs {
		all = append(all, c.ChunkDocument(ctx, doc)...)
	}
	return all
}

// chunkMenu splits by section boundary first, then groups consecutive menu
// items per chunk, keeping each item's name and price together. A section
// with no extractable items still yields one generic chunk.
func (c *Chunker) chunkMenu(doc *models.Document) []models.Chunk {
	var chunks []models.Chunk
	idx := 0
	for _, sec := range splitSections(doc.Text) {
		items := enrich.ExtractMenuItems(sec.Body)
		if len(items) == 0 {
			if sec.Body == "" {
				continue
			}
			chunks = append(chunks, c.newChunk(doc, idx, sectionText(sec.Name, sec.Body), models.ChunkGeneric))
			idx++
			continue
		}
		per := c.cfg.ItemsPerChunk
		if per <= 0 {
			per = 2
		}
		for start := 0; start < len(items); start += per {
			end := start + per
			if end > len(items) {
				end = len(items)
			}
			var lines []string
			for _, item := range items[start:end] {
				lines = append(lines, fmt.Sprintf("%s - $%s", item.Name, item.Price))
			}
			text := sectionText(sec.Name, strings.Join(lines, "\n"))
			chunk := c.newChunk(doc, idx, text, models.ChunkMenuItems)
			if sec.Name != "" {
				chunk.Metadata["section"] = sec.Name
			}
			chunks = append(chunks, chunk)
			idx++
		}
	}
	return chunks
}

// chunkSections splits on section boundaries. A section within the target
// token size becomes one section_complete chunk; oversized sections are
// re-split by size with overlap into section_part chunks.
func (c *Chunker) chunkSections(doc *models.Document) []models.Chunk {
	var chunks []models.Chunk
	idx := 0
	for _, sec := range splitSections(doc.Text) {
		if sec.Body == "" && sec.Name == "" {
			continue
		}
		text := sectionText(sec.Name, sec.Body)
		if EstimateTokens(text) <= c.cfg.ChunkSize {
			chunk := c.newChunk(doc, idx, text, models.ChunkSectionComplete)
			if sec.Name != "" {
				chunk.Metadata["section"] = sec.Name
			}
			chunks = append(chunks, chunk)
			idx++
			continue
		}
		for _, piece := range SplitBySize(sec.Body, c.cfg.ChunkSize, c.cfg.ChunkOverlap) {
			chunk := c.newChunk(doc, idx, sectionText(sec.Name, piece), models.ChunkSectionPart)
			if sec.Name != "" {
				chunk.Metadata["section"] = sec.Name
			}
			chunks = append(chunks, chunk)
			idx++
		}
	}
	return chunks
}

// chunkGeneric applies the similarity-based splitter when an embedder is
// configured, falling back to fixed-size splitting otherwise or on embed
// failure.
func (c *Chunker) chunkGeneric(ctx context.Context, doc *models.Document) []models.Chunk {
	if c.cfg.SemanticEnabled && c.embedder != nil {
		pieces, err := c.splitSemantic(ctx, doc.Text)
		if err == nil && len(pieces) > 0 {
			chunks := make([]models.Chunk, 0, len(pieces))
			for i, piece := range pieces {
				chunks = append(chunks, c.newChunk(doc, i, piece, models.ChunkSemantic))
			}
			return chunks
		}
		if err != nil {
			c.logger.Warn("semantic split failed, falling back to fixed-size",
				zap.String("doc_id", doc.ID), zap.Error(err))
		}
	}
	pieces := SplitBySize(doc.Text, c.cfg.ChunkSize, c.cfg.ChunkOverlap)
	chunks := make([]models.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, c.newChunk(doc, i, piece, models.ChunkGeneric))
	}
	return chunks
}

func (c *Chunker) newChunk(doc *models.Document, idx int, text string, ctype models.ChunkType) models.Chunk {
	meta := make(map[string]string, len(doc.Metadata)+1)
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	meta["chunk_type"] = string(ctype)
	return models.Chunk{
		ID:            fmt.Sprintf("%s_%d", doc.ID, idx),
		DocumentID:    doc.ID,
		Index:         idx,
		Text:          text,
		Type:          ctype,
		TokenEstimate: EstimateTokens(text),
		Metadata:      meta,
	}
}

func sectionText(name, body string) string {
	if name == "" {
		return body
	}
	if body == "" {
		return name
	}
	return name + "\n" + body
}
