package database

import (
	"fmt"
	"log/slog" // use slog for structured logging

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moviemeter/internal/api/models"
	"moviemeter/internal/config"
)

// ConnectDB opens the single-file SQLite store and brings the schema up to
// date. Foreign keys are switched on through the DSN so dependent rows
// follow their movie.
func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	dsn := cfg.DatabasePath + "?_fk=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// Verify the connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to the database successfully", "path", cfg.DatabasePath)
	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Movie{},
		&models.Genre{},
		&models.Director{},
		&models.Actor{},
		&models.Writer{},
		&models.MovieGenre{},
		&models.MovieDirector{},
		&models.MovieActor{},
		&models.MovieWriter{},
		&models.ExternalRating{},
		&models.User{},
		&models.UserRating{},
	)
}
