// Package config provides configuration loading and structs for the kondate pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for a pipeline run, loaded once at start
// and passed to each component. It is not mutated after Load returns.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Storage   StorageConfig   `yaml:"storage"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Indexing  IndexingConfig  `yaml:"indexing"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
	// Collections maps a source kind to the collection its chunks are routed to.
	Collections map[string]string `yaml:"collections"`
}

// StorageConfig holds the ingestion root and the run artifact output directory.
// The root contains fixed subdirectories, one per source kind (csv, json, doc,
// pdf), plus markdown files discovered recursively anywhere under it.
type StorageConfig struct {
	Root      string `yaml:"root"`
	OutputDir string `yaml:"output_dir"`
}

// ChunkingConfig holds chunk sizing and semantic splitting settings.
// Sizes are in estimated tokens.
type ChunkingConfig struct {
	ChunkSize         int     `yaml:"chunk_size"`
	ChunkOverlap      int     `yaml:"chunk_overlap"`
	ItemsPerChunk     int     `yaml:"items_per_chunk"`
	SemanticEnabled   bool    `yaml:"semantic_enabled"`
	SemanticThreshold float64 `yaml:"semantic_threshold"`
}

// IndexingConfig holds batching, retry, and metadata budget settings.
type IndexingConfig struct {
	BatchSize      int `yaml:"batch_size"`
	RetryAttempts  int `yaml:"retry_attempts"`
	RetryBackoffMS int `yaml:"retry_backoff_ms"`
	MetadataLimit  int `yaml:"metadata_limit"`
}

// EmbeddingConfig holds embedding service settings. The API key is read from
// the environment variable named by APIKeyEnv, never from the config file.
type EmbeddingConfig struct {
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	APIKeyEnv  string `yaml:"api_key_env"`
}

// RateLimitConfig holds the global embedding service budget shared across
// all in-flight batches.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	TokensPerMinute   int `yaml:"tokens_per_minute"`
}

// RedisConfig holds vector store connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Load reads and parses the config file at path, expands storage paths, and
// applies defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.Root = expandPath(cfg.Storage.Root, configDir)
	cfg.Storage.OutputDir = expandPath(cfg.Storage.OutputDir, configDir)

	return &cfg, nil
}

// Default returns a config populated entirely from defaults, with storage
// paths relative to the current directory.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// APIKey resolves the embedding API key from the environment.
func (c *Config) APIKey() string {
	return os.Getenv(c.Embedding.APIKeyEnv)
}

// CollectionNames returns the distinct collection names in the routing table.
func (c *Config) CollectionNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(c.Collections))
	for _, name := range c.Collections {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
