package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mindgraph/internal/config"
	"mindgraph/internal/knowledge"
	"mindgraph/internal/logger"
	"mindgraph/internal/pipeline"
	"mindgraph/internal/storage"
)

// app holds everything a command needs. Close releases the store and flushes the log.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *storage.SQLiteStore
	service *knowledge.Service
	proc    *pipeline.Processor
	runner  *pipeline.Runner
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	svc := knowledge.NewService(embedderFactory(cfg, store), knowledge.ServiceOptions{
		BatchSize:   cfg.AI.BatchSize,
		Concurrency: cfg.AI.Concurrency,
	}, log.With("component", "embeddings"))

	proc := pipeline.NewProcessor(svc, pipeline.OptionsFromConfig(cfg.Pipeline), log.With("component", "pipeline"))

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		service: svc,
		proc:    proc,
		runner:  pipeline.NewRunner(proc, store, log),
	}, nil
}

// embedderFactory builds the configured provider behind the in-memory and persistent vector caches.
func embedderFactory(cfg *config.Config, cache knowledge.VectorCache) knowledge.Factory {
	opts := knowledge.EmbedderOptions{
		Provider:  cfg.AI.Provider,
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.Model,
		Dimension: cfg.AI.Dimension,
		BaseURL:   cfg.AI.BaseURL,
	}
	return func(ctx context.Context) (knowledge.Embedder, error) {
		inner, err := knowledge.NewEmbedder(ctx, opts)
		if err != nil {
			return nil, err
		}
		cached, err := knowledge.NewCachedEmbedder(inner, knowledge.ModelName(opts), cfg.AI.CacheSize, cache)
		if err != nil {
			return nil, err
		}
		return cached, nil
	}
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close database", "error", err)
	}
	a.log.Sync()
}

// readInput returns the text to process: --text wins, then a file argument, then stdin.
func readInput(text string, args []string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	if len(args) > 0 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(b), nil
}
