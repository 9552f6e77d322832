package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/oracle/internal/answerer"
	"github.com/MikeSquared-Agency/oracle/internal/api"
	"github.com/MikeSquared-Agency/oracle/internal/config"
	"github.com/MikeSquared-Agency/oracle/internal/embed"
	"github.com/MikeSquared-Agency/oracle/internal/extractor"
	"github.com/MikeSquared-Agency/oracle/internal/hermes"
	"github.com/MikeSquared-Agency/oracle/internal/index"
	"github.com/MikeSquared-Agency/oracle/internal/openrouter"
	"github.com/MikeSquared-Agency/oracle/internal/retrieval"
	"github.com/MikeSquared-Agency/oracle/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("oracle starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database holds the indexed corpus
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	messages, vectors, err := db.LoadCorpus(ctx)
	if err != nil {
		slog.Error("failed to load corpus", "error", err)
		os.Exit(1)
	}
	if len(messages) == 0 {
		slog.Error("corpus is empty, run the indexer first")
		os.Exit(1)
	}

	idx, err := index.New(vectors)
	if err != nil {
		slog.Error("failed to build index", "error", err)
		os.Exit(1)
	}
	slog.Info("index built", "messages", len(messages), "dimension", idx.Dimension())

	// Embedding client; probe once so a bad key or a model of the wrong
	// dimension fails at startup instead of on the first query.
	if cfg.EmbeddingAPIKey == "" {
		slog.Error("EMBEDDING_API_KEY is required")
		os.Exit(1)
	}
	embedder := embed.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	probe, err := embedder.Embed(ctx, "startup probe")
	if err != nil {
		slog.Error("embedding probe failed", "error", err)
		os.Exit(1)
	}
	if len(probe) != idx.Dimension() {
		slog.Error("embedding dimension does not match the index",
			"model", cfg.EmbeddingModel, "got", len(probe), "want", idx.Dimension())
		os.Exit(1)
	}
	slog.Info("embedding client ready", "model", cfg.EmbeddingModel)

	engine, err := retrieval.NewEngine(embedder, idx, messages)
	if err != nil {
		slog.Error("failed to build retrieval engine", "error", err)
		os.Exit(1)
	}

	// Generative tier (optional, the rule-based tier covers for it)
	var gen *extractor.Extractor
	if cfg.OpenRouterAPIKey != "" {
		llm := openrouter.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
		gen = extractor.New(llm, cfg.PromptDocs, slog.Default())
		slog.Info("generative tier ready", "model", cfg.OpenRouterModel)
	} else {
		slog.Warn("OPENROUTER_API_KEY not set, running rule-based only")
	}

	// NATS/Hermes telemetry (optional)
	var bus *hermes.Client
	if cfg.NatsURL != "" {
		bus, err = hermes.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Warn("NATS unavailable, running without telemetry", "error", err)
			bus = nil
		} else {
			defer bus.Close()
			slog.Info("NATS connected", "url", cfg.NatsURL)
		}
	}

	ans := answerer.New(engine, gen, bus, cfg.RetrievalK, slog.Default())

	srv := api.NewServer(cfg.Port, ans, len(messages))
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if bus != nil {
		if err := bus.Publish(hermes.SubjectRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
			"corpus":    len(messages),
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("oracle ready", "port", cfg.Port, "corpus", len(messages))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("oracle stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
