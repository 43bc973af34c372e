package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"moviemeter/database"
	"moviemeter/internal/api/repository"
	"moviemeter/internal/config"
	"moviemeter/internal/ingestion/omdb"
)

func main() {
	large := flag.Bool("large", false, "seed via OMDb search pages instead of the curated title list")
	pages := flag.Int("pages", 2, "search pages to pull per term in -large mode")
	terms := flag.String("terms", "action,love,star,war,dark", "comma-separated search terms for -large mode")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.OMDbAPIKey == "" {
		log.Fatal("OMDB_API_KEY is required for seeding")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// Stop cleanly on Ctrl+C so a partial seed still commits finished titles.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := repository.NewMovieRepo(db)
	client := omdb.NewClient(cfg.OMDbAPIURL, cfg.OMDbAPIKey)
	seeder := omdb.NewSeeder(client, repo, cfg.SeedDelay, logger)

	var stats omdb.SeedStats
	if *large {
		stats, err = seeder.RunLarge(ctx, splitTerms(*terms), *pages)
	} else {
		stats, err = seeder.Run(ctx, omdb.PopularTitles)
	}
	if err != nil {
		logger.Error("seeding aborted", "error", err, "saved", stats.Saved, "skipped", stats.Skipped, "failed", stats.Failed)
		os.Exit(1)
	}
	logger.Info("seeding complete", "saved", stats.Saved, "skipped", stats.Skipped, "failed", stats.Failed)
}

func splitTerms(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
