package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"moviemeter/database"
	"moviemeter/internal/api/handler"
	"moviemeter/internal/api/repository"
	"moviemeter/internal/api/service"
	"moviemeter/internal/config"
	"moviemeter/internal/ingestion/omdb"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// Wire repositories, the OMDb client and services explicitly; handlers
	// only see interfaces.
	movieRepo := repository.NewMovieRepo(db)
	ratingRepo := repository.NewUserRatingRepo(db)
	omdbClient := omdb.NewClient(cfg.OMDbAPIURL, cfg.OMDbAPIKey)

	movieSvc := service.NewMovieService(movieRepo, omdbClient, logger)
	ratingSvc := service.NewRatingService(ratingRepo, movieRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Movie Meter API is running"})
	})

	movies := r.Group("/api/movies")
	handler.NewMovieHandler(movieSvc, logger).RegisterRoutes(movies)
	handler.NewRatingHandler(ratingSvc, logger).RegisterRoutes(movies)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr, "omdb_key_configured", cfg.OMDbAPIKey != "")
	if err := r.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// newLogger builds the process-wide slog logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
