package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// OpenAIEmbedder calls an OpenAI-compatible embedding API via langchaingo.
// Previously seen texts are served from an LRU cache, so re-runs over
// unchanged sources only pay for new content.
type OpenAIEmbedder struct {
	embedder   embeddings.Embedder
	dimensions int
	cache      *Cache
	logger     *zap.Logger
}

// OpenAIOption configures an OpenAIEmbedder.
type OpenAIOption func(*OpenAIEmbedder)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) OpenAIOption {
	return func(e *OpenAIEmbedder) { e.logger = l }
}

// WithCacheSize overrides the embedding cache capacity.
func WithCacheSize(n int) OpenAIOption {
	return func(e *OpenAIEmbedder) { e.cache = NewCache(n) }
}

// NewOpenAIEmbedder creates an embedder for the given model and dimension.
// baseURL may be empty for the default OpenAI endpoint; apiKey must be set.
func NewOpenAIEmbedder(baseURL, apiKey, model string, dimensions int, opts ...OpenAIOption) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding api key is required")
	}
	clientOpts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	}
	if baseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("wrap embedding client: %w", err)
	}
	e := &OpenAIEmbedder{
		embedder:   embedder,
		dimensions: dimensions,
		cache:      NewCache(defaultCacheSize),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// EmbedBatch returns one vector per input text, preserving order. Only cache
// misses are sent to the service.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	var misses []string
	var missIdx []int
	for i, text := range texts {
		if vec, ok := e.cache.Get(text); ok {
			result[i] = vec
			continue
		}
		misses = append(misses, text)
		missIdx = append(missIdx, i)
	}
	if len(misses) == 0 {
		return result, nil
	}
	e.logger.Debug("embedding batch", zap.Int("texts", len(texts)), zap.Int("misses", len(misses)))
	vectors, err := e.embedder.EmbedDocuments(ctx, misses)
	if err != nil {
		return nil, classify(err)
	}
	if len(vectors) != len(misses) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrServiceError, len(vectors), len(misses))
	}
	for i, vec := range vectors {
		result[missIdx[i]] = vec
		e.cache.Set(misses[i], vec)
	}
	return result, nil
}

// Dimensions returns the embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// classify maps a transport error onto the sentinel failure classes so the
// retry loop can treat it as data.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", ErrServiceError, err)
}
