package vector

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hyperjump/kondate/internal/config"
)

const (
	keyPrefix = "kondate:"

	fieldText     = "text"
	fieldVector   = "vector"
	fieldMetadata = "metadata"
)

// RedisStore implements Store on Redis with RediSearch. Each collection gets
// its own HNSW index over hash keys prefixed kondate:<collection>:.
type RedisStore struct {
	client     *redis.Client
	dimensions int
	logger     *zap.Logger

	mu      sync.Mutex
	indexed map[string]bool
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisLogger sets a logger for debug output.
func WithRedisLogger(l *zap.Logger) RedisOption {
	return func(s *RedisStore) { s.logger = l }
}

// NewRedisStore connects to Redis and verifies the connection. The
// dimensions value must match the embedder producing the vectors.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, dimensions int, opts ...RedisOption) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	s := &RedisStore{
		client:     client,
		dimensions: dimensions,
		logger:     zap.NewNop(),
		indexed:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EnsureCollection creates the collection's vector index if it does not
// exist yet. Safe to call before every batch; creation happens once.
func (s *RedisStore) EnsureCollection(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexed[collection] {
		return nil
	}

	indexName := keyPrefix + collection
	if _, err := s.client.Do(ctx, "FT.INFO", indexName).Result(); err == nil {
		s.indexed[collection] = true
		return nil
	}

	_, err := s.client.Do(ctx, "FT.CREATE", indexName,
		"ON", "HASH",
		"PREFIX", "1", collectionPrefix(collection),
		"SCHEMA",
		fieldVector, "VECTOR", "HNSW", "6",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(s.dimensions),
		"DISTANCE_METRIC", "COSINE",
		fieldText, "TEXT",
		fieldMetadata, "TEXT",
	).Result()
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", indexName, err)
	}

	s.logger.Debug("created vector index", zap.String("collection", collection),
		zap.Int("dimensions", s.dimensions))
	s.indexed[collection] = true
	return nil
}

// Upsert writes records through a pipeline. Vectors are stored as
// little-endian float32 bytes, metadata as a JSON blob.
func (s *RedisStore) Upsert(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.EnsureCollection(ctx, collection); err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, rec := range records {
		if len(rec.Vector) != s.dimensions {
			return fmt.Errorf("record %s: vector has %d dimensions, index expects %d",
				rec.ID, len(rec.Vector), s.dimensions)
		}
		metadataJSON, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("record %s: %w", rec.ID, err)
		}
		if len(metadataJSON) > MaxMetadataBytes {
			return fmt.Errorf("record %s: %d bytes: %w", rec.ID, len(metadataJSON), ErrMetadataTooLarge)
		}
		pipe.HSet(ctx, collectionPrefix(collection)+rec.ID,
			fieldText, rec.Text,
			fieldVector, encodeVector(rec.Vector),
			fieldMetadata, metadataJSON,
		)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func collectionPrefix(collection string) string {
	return keyPrefix + collection + ":"
}

// encodeVector packs a float32 slice as little-endian bytes, the layout
// RediSearch expects for FLOAT32 vector fields.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
