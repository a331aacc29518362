// Package main is the Kondate CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/kondate/internal/cli"
	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/embedding"
	"github.com/hyperjump/kondate/internal/pipeline"
	"github.com/hyperjump/kondate/internal/vector"
	"github.com/hyperjump/kondate/internal/watcher"
	"github.com/hyperjump/kondate/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kondate/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "kondate run" from the project dir picks up the
// project's config (including debug).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// Secrets come from the environment; a .env in the working directory is a
	// development convenience.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "run":
		runOnce()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("kondate version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Kondate - restaurant knowledge ingestion pipeline

Usage:
  kondate run [flags]      Ingest, enrich, chunk, and index all sources once
  kondate watch [flags]    Run once, then re-run when source files change
  kondate version          Show version
  kondate help             Show this help

Flags (run, watch):
  --config <path>   Config file path (default ` + defaultConfigPath + `,
                    falling back to ./config.yaml when present)
  --debug           Enable debug logging
  --dry-run         Skip external services: deterministic local embedder,
                    in-memory store, nothing written to Redis
  --output <fmt>    Run summary format, text or json (run only)

Environment:
  OPENAI_API_KEY    Embedding API key (or the key named by embedding.api_key_env)
  A .env file in the working directory is loaded if present.
`)
}

// components bundles everything a pipeline run needs.
type components struct {
	cfg      *config.Config
	logger   *zap.Logger
	embedder embedding.Embedder
	store    vector.Store
}

func (c *components) Close() {
	if c.store != nil {
		_ = c.store.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func initialize(configPath string, debug, dryRun bool) (*components, error) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	debugMode := cfg.Debug || debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Info("config loaded",
		zap.String("config_path", resolvedPath),
		zap.Bool("debug", debugMode),
		zap.Bool("dry_run", dryRun))

	c := &components{cfg: cfg, logger: logger}
	if dryRun {
		c.embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
		c.store = vector.NewMemoryStore()
		return c, nil
	}

	apiKey := cfg.APIKey()
	if apiKey == "" {
		c.Close()
		return nil, fmt.Errorf("embedding api key not set: export %s", cfg.Embedding.APIKeyEnv)
	}
	embedder, err := embedding.NewOpenAIEmbedder(
		cfg.Embedding.BaseURL, apiKey, cfg.Embedding.Model, cfg.Embedding.Dimensions,
		embedding.WithLogger(logger))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	c.embedder = embedder

	store, err := vector.NewRedisStore(context.Background(), cfg.Redis, cfg.Embedding.Dimensions,
		vector.WithRedisLogger(logger))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to vector store: %w", err)
	}
	c.store = store
	return c, nil
}

func runOnce() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	dryRun := fs.Bool("dry-run", false, "use local embedder and in-memory store")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	_ = fs.Parse(os.Args[2:])

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	c, err := initialize(*configPath, *debug, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summary, err := pipeline.New(c.cfg, c.embedder, c.store, pipeline.WithLogger(c.logger)).Run(ctx)
	if err != nil {
		c.logger.Error("run failed", zap.Error(err))
		c.Close()
		os.Exit(1)
	}
	if err := cli.WriteRunSummary(os.Stdout, summary, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		c.Close()
		os.Exit(1)
	}
	if summary.TotalFailed() > 0 {
		c.Close()
		os.Exit(2)
	}
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	dryRun := fs.Bool("dry-run", false, "use local embedder and in-memory store")
	_ = fs.Parse(os.Args[2:])

	c, err := initialize(*configPath, *debug, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p := pipeline.New(c.cfg, c.embedder, c.store, pipeline.WithLogger(c.logger))
	runPipeline := func() {
		summary, err := p.Run(ctx)
		if err != nil {
			c.logger.Error("run failed", zap.Error(err))
			return
		}
		c.logger.Info("run complete",
			zap.Int("documents", summary.Documents),
			zap.Int("succeeded", summary.TotalSucceeded()),
			zap.Int("failed", summary.TotalFailed()))
	}

	// Initial pass, then re-run on changes.
	runPipeline()

	watchOpts := []watcher.Option{watcher.WithLogger(c.logger)}
	w := watcher.NewWatcher(c.cfg.Storage.Root, runPipeline, watchOpts...)
	if err := w.Start(ctx); err != nil {
		c.logger.Error("failed to start watcher", zap.Error(err))
		c.Close()
		os.Exit(1)
	}
	defer w.Stop()

	c.logger.Info("watching for changes", zap.String("root", c.cfg.Storage.Root))
	<-ctx.Done()
	c.logger.Info("shutting down")
}
