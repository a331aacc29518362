package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = "./storage"
	}
	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = "./output"
	}
	if cfg.Chunking.ChunkSize == 0 {
		cfg.Chunking.ChunkSize = 350
	}
	if cfg.Chunking.ChunkOverlap == 0 {
		cfg.Chunking.ChunkOverlap = 50
	}
	if cfg.Chunking.ItemsPerChunk == 0 {
		cfg.Chunking.ItemsPerChunk = 2
	}
	if cfg.Chunking.SemanticThreshold == 0 {
		cfg.Chunking.SemanticThreshold = 0.95
	}
	if cfg.Indexing.BatchSize == 0 {
		cfg.Indexing.BatchSize = 10
	}
	if cfg.Indexing.RetryAttempts == 0 {
		cfg.Indexing.RetryAttempts = 3
	}
	if cfg.Indexing.RetryBackoffMS == 0 {
		cfg.Indexing.RetryBackoffMS = 500
	}
	if cfg.Indexing.MetadataLimit == 0 {
		cfg.Indexing.MetadataLimit = 800
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1536
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 60
	}
	if cfg.RateLimit.TokensPerMinute == 0 {
		cfg.RateLimit.TokensPerMinute = 40000
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Collections == nil {
		cfg.Collections = map[string]string{
			"tabular":     "coupons",
			"object":      "restaurants",
			"office_text": "allergens",
			"pdf_text":    "menus",
			"markup":      "menus",
		}
	}
}
