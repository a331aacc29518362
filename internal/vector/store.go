// Package vector defines the collection-addressed vector store interface and
// its Redis and in-memory implementations.
package vector

import (
	"context"
	"errors"
)

// MaxMetadataBytes caps the serialized metadata blob a store accepts per
// record. The pipeline's metadata budget sits well below this; the cap
// catches writers that bypass it.
const MaxMetadataBytes = 4096

var (
	// ErrServiceUnavailable reports a store that cannot be reached. Callers
	// treat it as retryable.
	ErrServiceUnavailable = errors.New("vector store unavailable")
	// ErrMetadataTooLarge reports a record whose serialized metadata exceeds
	// the store's limit. Not retryable; the writer must shrink the metadata.
	ErrMetadataTooLarge = errors.New("record metadata too large")
)

// Record is one embedded chunk ready for storage. IDs are stable across
// runs, so upserting the same record twice overwrites rather than
// duplicates.
type Record struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata map[string]string
}

// Store writes embedded records into named collections.
type Store interface {
	// EnsureCollection prepares a collection for writes, creating its index
	// if needed. Idempotent.
	EnsureCollection(ctx context.Context, collection string) error
	// Upsert writes records into a collection, overwriting records with the
	// same ID.
	Upsert(ctx context.Context, collection string, records []Record) error
	// Close releases the store's resources.
	Close() error
}
