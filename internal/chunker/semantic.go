package chunker

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var reSentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// splitSemantic splits text at semantic boundaries: adjacent segments are
// embedded and a boundary is placed wherever their cosine similarity falls
// below the configured threshold. Accumulated spans are also flushed at the
// chunk size ceiling, so semantic chunks stay size-bounded.
func (c *Chunker) splitSemantic(ctx context.Context, text string) ([]string, error) {
	segments := splitSegments(text)
	if len(segments) < 2 {
		return segments, nil
	}
	vectors, err := c.embedder.EmbedBatch(ctx, segments)
	if err != nil {
		return nil, fmt.Errorf("embed segments: %w", err)
	}
	var pieces []string
	current := []string{segments[0]}
	currentTokens := EstimateTokens(segments[0])
	flush := func() {
		if len(current) > 0 {
			pieces = append(pieces, strings.Join(current, " "))
			current = nil
			currentTokens = 0
		}
	}
	for i := 1; i < len(segments); i++ {
		tokens := EstimateTokens(segments[i])
		if cosine(vectors[i-1], vectors[i]) < c.cfg.SemanticThreshold ||
			currentTokens+tokens > c.cfg.ChunkSize {
			flush()
		}
		current = append(current, segments[i])
		currentTokens += tokens
	}
	flush()
	return pieces, nil
}

// splitSegments breaks text into sentence-level segments, treating newlines
// as hard breaks.
func splitSegments(text string) []string {
	marked := reSentenceEnd.ReplaceAllString(text, "$1\n")
	var segments []string
	for _, line := range strings.Split(marked, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			segments = append(segments, line)
		}
	}
	return segments
}

// cosine returns the cosine similarity of two vectors, 0 on mismatch.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
