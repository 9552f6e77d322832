// Prints a data-quality report over the stored corpus, or over a local
// snapshot when -file is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/oracle/internal/config"
	"github.com/MikeSquared-Agency/oracle/internal/corpus"
	"github.com/MikeSquared-Agency/oracle/internal/report"
	"github.com/MikeSquared-Agency/oracle/internal/store"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "", "analyze a local JSON snapshot instead of the database")
	flag.Parse()

	var (
		messages []corpus.Message
		err      error
	)
	if *file != "" {
		messages, err = corpus.LoadFile(*file)
		if err != nil {
			slog.Error("failed to load snapshot", "path", *file, "error", err)
			os.Exit(1)
		}
	} else {
		cfg := config.Load()
		if cfg.DatabaseURL == "" {
			slog.Error("DATABASE_URL is required (or pass -file)")
			os.Exit(1)
		}
		ctx := context.Background()
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		messages, _, err = db.LoadCorpus(ctx)
		if err != nil {
			slog.Error("failed to load corpus", "error", err)
			os.Exit(1)
		}
	}

	fmt.Print(report.Analyze(messages).Render())
}
