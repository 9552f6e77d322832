// The indexer builds the corpus: it pulls messages from the member API (or a
// local snapshot), embeds each one, and replaces the stored corpus in a
// single transaction. Run it before starting the oracle service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/oracle/internal/config"
	"github.com/MikeSquared-Agency/oracle/internal/corpus"
	"github.com/MikeSquared-Agency/oracle/internal/embed"
	"github.com/MikeSquared-Agency/oracle/internal/hermes"
	"github.com/MikeSquared-Agency/oracle/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		file = flag.String("file", "", "index a local JSON snapshot instead of the member API")
		save = flag.String("save", "", "write the fetched messages to this path before indexing")
	)
	flag.Parse()

	cfg := config.Load()
	handler := slog.NewJSONHandler(os.Stdout, nil)
	slog.SetDefault(slog.New(handler))

	ctx := context.Background()

	var (
		messages []corpus.Message
		source   string
		err      error
	)
	switch {
	case *file != "":
		source = *file
		messages, err = corpus.LoadFile(*file)
	case cfg.MemberAPIURL != "":
		source = cfg.MemberAPIURL
		messages, err = corpus.Fetch(ctx, cfg.MemberAPIURL)
	default:
		slog.Error("no source: set MEMBER_API_URL or pass -file")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("failed to load messages", "source", source, "error", err)
		os.Exit(1)
	}
	if len(messages) == 0 {
		slog.Error("source returned no messages", "source", source)
		os.Exit(1)
	}
	slog.Info("messages loaded", "count", len(messages), "source", source)

	if *save != "" {
		if err := corpus.SaveFile(*save, messages); err != nil {
			slog.Error("failed to save snapshot", "path", *save, "error", err)
			os.Exit(1)
		}
		slog.Info("snapshot saved", "path", *save)
	}

	if cfg.EmbeddingAPIKey == "" {
		slog.Error("EMBEDDING_API_KEY is required")
		os.Exit(1)
	}
	embedder := embed.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)

	docs := make([]string, len(messages))
	for i, m := range messages {
		docs[i] = m.Document()
	}

	slog.Info("embedding corpus", "model", cfg.EmbeddingModel, "documents", len(docs))
	vectors, err := embedder.EmbedBatch(ctx, docs)
	if err != nil {
		slog.Error("embedding failed", "error", err)
		os.Exit(1)
	}

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

	if err := db.ReplaceCorpus(ctx, messages, vectors); err != nil {
		slog.Error("failed to store corpus", "error", err)
		os.Exit(1)
	}
	slog.Info("corpus stored", "messages", len(messages), "dimension", len(vectors[0]))

	if cfg.NatsURL != "" {
		bus, err := hermes.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Warn("NATS unavailable, skipping announcement", "error", err)
		} else {
			defer bus.Close()
			if err := bus.Publish(hermes.SubjectCorpusIndexed, hermes.CorpusIndexedSignal{
				Messages:  len(messages),
				Dimension: len(vectors[0]),
				Source:    source,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			}); err != nil {
				slog.Warn("failed to publish corpus signal", "error", err)
			}
		}
	}

	slog.Info("indexing complete")
}
