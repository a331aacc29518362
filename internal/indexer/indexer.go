// Package indexer embeds routed chunks and writes them to the vector store,
// batching per collection with bounded retries. Collections are indexed
// concurrently; batches within a collection stay in order.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/embedding"
	"github.com/hyperjump/kondate/internal/enrich"
	"github.com/hyperjump/kondate/internal/models"
	"github.com/hyperjump/kondate/internal/vector"
)

// Indexer drives embedding and storage for routed chunks. All collections
// share one rate limiter, so concurrent batches never exceed the embedding
// service budget.
type Indexer struct {
	store    vector.Store
	embedder embedding.Embedder
	limiter  *embedding.Limiter
	cfg      config.IndexingConfig
	logger   *zap.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithLogger sets a logger for progress and failure output.
func WithLogger(l *zap.Logger) Option {
	return func(ix *Indexer) { ix.logger = l }
}

// WithLimiter sets the shared embedding rate limiter. Without one, batches
// run unthrottled.
func WithLimiter(limiter *embedding.Limiter) Option {
	return func(ix *Indexer) { ix.limiter = limiter }
}

// NewIndexer creates an indexer over the given store and embedder.
func NewIndexer(store vector.Store, embedder embedding.Embedder, cfg config.IndexingConfig, opts ...Option) *Indexer {
	ix := &Indexer{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Index embeds and stores every routed chunk, one goroutine per collection.
// A batch that exhausts its retries marks its chunks failed and the run
// continues; only context cancellation stops early. The returned map has one
// result per input collection.
func (ix *Indexer) Index(ctx context.Context, routed map[string][]models.Chunk) map[string]*models.IndexingResult {
	results := make(map[string]*models.IndexingResult, len(routed))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for collection, chunks := range routed {
		wg.Add(1)
		go func(collection string, chunks []models.Chunk) {
			defer wg.Done()
			res := ix.indexCollection(ctx, collection, chunks)
			mu.Lock()
			results[collection] = res
			mu.Unlock()
		}(collection, chunks)
	}
	wg.Wait()
	return results
}

// indexCollection processes one collection's chunks in ordered batches.
func (ix *Indexer) indexCollection(ctx context.Context, collection string, chunks []models.Chunk) *models.IndexingResult {
	res := &models.IndexingResult{Collection: collection, Attempted: len(chunks)}

	if err := ix.store.EnsureCollection(ctx, collection); err != nil {
		ix.logger.Error("failed to prepare collection",
			zap.String("collection", collection), zap.Error(err))
		res.Failed = len(chunks)
		res.Errors = append(res.Errors, models.ErrorRecord{
			BatchStart: 0,
			ChunkCount: len(chunks),
			Reason:     fmt.Sprintf("prepare collection: %v", err),
		})
		return res
	}

	batchSize := ix.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		if err := ix.indexBatch(ctx, collection, batch); err != nil {
			ix.logger.Warn("batch failed after retries",
				zap.String("collection", collection),
				zap.Int("batch_start", start),
				zap.Int("chunks", len(batch)),
				zap.Error(err))
			res.Failed += len(batch)
			res.Errors = append(res.Errors, models.ErrorRecord{
				BatchStart: start,
				ChunkCount: len(batch),
				Reason:     err.Error(),
			})
			if ctx.Err() != nil {
				remaining := len(chunks) - end
				if remaining > 0 {
					res.Failed += remaining
					res.Errors = append(res.Errors, models.ErrorRecord{
						BatchStart: end,
						ChunkCount: remaining,
						Reason:     ctx.Err().Error(),
					})
				}
				return res
			}
			continue
		}
		res.Succeeded += len(batch)
	}
	return res
}

// indexBatch embeds and writes one batch, retrying retryable failures with
// exponential backoff. Non-retryable failures return immediately.
func (ix *Indexer) indexBatch(ctx context.Context, collection string, batch []models.Chunk) error {
	attempts := ix.cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := time.Duration(ix.cfg.RetryBackoffMS) * time.Millisecond
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		lastErr = ix.tryBatch(ctx, collection, batch)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		ix.logger.Debug("retrying batch",
			zap.String("collection", collection),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}
	return fmt.Errorf("retries exhausted: %w", lastErr)
}

func (ix *Indexer) tryBatch(ctx context.Context, collection string, batch []models.Chunk) error {
	texts := make([]string, len(batch))
	tokens := 0
	for i, chunk := range batch {
		texts[i] = chunk.Text
		tokens += chunk.TokenEstimate
	}
	if ix.limiter != nil {
		if err := ix.limiter.Wait(ctx, tokens); err != nil {
			return err
		}
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
	}

	records := make([]vector.Record, len(batch))
	for i, chunk := range batch {
		meta := make(map[string]string, len(chunk.Metadata))
		for k, v := range chunk.Metadata {
			meta[k] = v
		}
		// Last-resort guard; the transformer already enforced this budget.
		if ix.cfg.MetadataLimit > 0 {
			enrich.EnforceBudget(meta, ix.cfg.MetadataLimit)
		}
		records[i] = vector.Record{
			ID:       chunk.ID,
			Text:     chunk.Text,
			Vector:   vectors[i],
			Metadata: meta,
		}
	}
	if err := ix.store.Upsert(ctx, collection, records); err != nil {
		return fmt.Errorf("upsert %s: %w", collection, err)
	}
	return nil
}

// retryable reports whether an error is worth another attempt.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return embedding.Retryable(err) || errors.Is(err, vector.ErrServiceUnavailable)
}
