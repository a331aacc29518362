package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
storage:
  root: ./data
chunking:
  chunk_size: 200
indexing:
  batch_size: 5
collections:
  tabular: promos
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug {
		t.Error("expected debug true")
	}
	if cfg.Storage.Root != filepath.Join(dir, "data") {
		t.Errorf("storage root = %s", cfg.Storage.Root)
	}
	if cfg.Chunking.ChunkSize != 200 {
		t.Errorf("chunk size = %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.ChunkOverlap != 50 {
		t.Errorf("chunk overlap default = %d", cfg.Chunking.ChunkOverlap)
	}
	if cfg.Indexing.BatchSize != 5 {
		t.Errorf("batch size = %d", cfg.Indexing.BatchSize)
	}
	if cfg.Collections["tabular"] != "promos" {
		t.Errorf("collections override not applied: %v", cfg.Collections)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Chunking.ChunkSize != 350 || cfg.Chunking.ChunkOverlap != 50 {
		t.Errorf("chunking defaults = %+v", cfg.Chunking)
	}
	if cfg.Indexing.BatchSize != 10 || cfg.Indexing.RetryAttempts != 3 {
		t.Errorf("indexing defaults = %+v", cfg.Indexing)
	}
	if cfg.Indexing.MetadataLimit != 800 {
		t.Errorf("metadata limit = %d", cfg.Indexing.MetadataLimit)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("embedding dimensions = %d", cfg.Embedding.Dimensions)
	}
	if cfg.Collections["pdf_text"] != "menus" {
		t.Errorf("default routing table = %v", cfg.Collections)
	}
}

func TestCollectionNames(t *testing.T) {
	cfg := Default()
	names := cfg.CollectionNames()
	// pdf_text and markup share the menus collection.
	if len(names) != 4 {
		t.Errorf("expected 4 distinct collections, got %v", names)
	}
}
