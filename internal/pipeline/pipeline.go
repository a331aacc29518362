// Package pipeline orchestrates the full ingestion run: ingest, enrich,
// chunk, route, index, and write a run summary artifact.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kondate/internal/chunker"
	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/embedding"
	"github.com/hyperjump/kondate/internal/enrich"
	"github.com/hyperjump/kondate/internal/indexer"
	"github.com/hyperjump/kondate/internal/ingest"
	"github.com/hyperjump/kondate/internal/models"
	"github.com/hyperjump/kondate/internal/router"
	"github.com/hyperjump/kondate/internal/vector"
)

// Stage names as they appear in run summaries.
const (
	StageIngest    = "ingest"
	StageTransform = "transform"
	StageChunk     = "chunk"
	StageRoute     = "route"
	StageIndex     = "index"
)

// Pipeline wires the stages together. Batch-level indexing failures are
// reported in the summary and never abort a run; only unusable inputs or an
// unreachable store do.
type Pipeline struct {
	cfg      *config.Config
	embedder embedding.Embedder
	store    vector.Store
	logger   *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a logger shared by all stages.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline over the given embedder and store. The caller owns
// the store's lifetime.
func New(cfg *config.Config, embedder embedding.Embedder, store vector.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		embedder: embedder,
		store:    store,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one full pass over the storage root and writes the summary
// artifact. The returned summary is valid even when some collections report
// failures; a non-nil error means the run could not complete at all.
func (p *Pipeline) Run(ctx context.Context) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	p.logger.Info("pipeline run starting",
		zap.String("run_id", summary.RunID),
		zap.String("root", p.cfg.Storage.Root))

	trace := func(stage string, input, output int, start time.Time) {
		summary.Traces = append(summary.Traces, models.StageTrace{
			Stage:    stage,
			Input:    input,
			Output:   output,
			Duration: time.Since(start),
		})
	}

	start := time.Now()
	ingestor := ingest.NewIngestor(p.cfg.Storage.Root, ingest.WithLogger(p.logger))
	docs, err := ingestor.All()
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	trace(StageIngest, 0, len(docs), start)
	summary.Documents = len(docs)

	start = time.Now()
	transformer := enrich.NewTransformer(p.cfg.Indexing.MetadataLimit, enrich.WithLogger(p.logger))
	docs = transformer.TransformAll(docs)
	trace(StageTransform, summary.Documents, len(docs), start)

	start = time.Now()
	chunkOpts := []chunker.Option{chunker.WithLogger(p.logger)}
	if p.cfg.Chunking.SemanticEnabled {
		chunkOpts = append(chunkOpts, chunker.WithSemanticEmbedder(p.embedder))
	}
	chunks := chunker.NewChunker(p.cfg.Chunking, chunkOpts...).ChunkAll(ctx, docs)
	trace(StageChunk, len(docs), len(chunks), start)
	summary.Chunks = len(chunks)

	start = time.Now()
	routed := router.NewRouter(p.cfg.Collections, router.WithLogger(p.logger)).Route(docs, chunks)
	routedCount := 0
	for _, group := range routed {
		routedCount += len(group)
	}
	trace(StageRoute, len(chunks), routedCount, start)

	start = time.Now()
	limiter := embedding.NewLimiter(p.cfg.RateLimit.RequestsPerMinute, p.cfg.RateLimit.TokensPerMinute)
	ix := indexer.NewIndexer(p.store, p.embedder, p.cfg.Indexing,
		indexer.WithLogger(p.logger), indexer.WithLimiter(limiter))
	summary.Collections = ix.Index(ctx, routed)
	trace(StageIndex, routedCount, summary.TotalSucceeded(), start)

	summary.FinishedAt = time.Now()
	p.logger.Info("pipeline run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("documents", summary.Documents),
		zap.Int("chunks", summary.Chunks),
		zap.Int("succeeded", summary.TotalSucceeded()),
		zap.Int("failed", summary.TotalFailed()),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)))

	if err := p.writeSummary(summary); err != nil {
		p.logger.Warn("failed to write run summary artifact", zap.Error(err))
	}
	if ctx.Err() != nil {
		return summary, ctx.Err()
	}
	return summary, nil
}

// writeSummary persists the run summary as a timestamped JSON artifact in
// the output directory.
func (p *Pipeline) writeSummary(summary *models.RunSummary) error {
	dir := p.cfg.Storage.OutputDir
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	name := fmt.Sprintf("results_%s.json", summary.StartedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	p.logger.Info("run summary written", zap.String("path", path))
	return nil
}
