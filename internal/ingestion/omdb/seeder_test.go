package omdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moviemeter/database"
	"moviemeter/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedRepo(t *testing.T) *repository.MovieRepo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return repository.NewMovieRepo(db)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeeder_Run(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		title := r.URL.Query().Get("t")
		if title == "Broken Movie" {
			fmt.Fprint(w, `{"Response": "False", "Error": "Movie not found!"}`)
			return
		}
		fmt.Fprintf(w, `{"Title": %q, "Year": "1999", "imdbID": "tt%07d", "Type": "movie", "Response": "True"}`,
			title, requests)
	}))
	defer server.Close()

	repo := newSeedRepo(t)
	seeder := NewSeeder(NewClient(server.URL, "testkey"), repo, time.Millisecond, discardLogger())

	stats, err := seeder.Run(context.Background(), []SeedTitle{
		{"The Matrix", 1999},
		{"Broken Movie", 2000},
		{"Inception", 2010},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Saved)
	assert.Equal(t, 1, stats.Failed)

	list, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSeeder_RunLarge_SkipsExistingAndNonMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("s") != "" {
			fmt.Fprint(w, `{
				"Search": [
					{"Title": "The Matrix", "imdbID": "tt0000001", "Type": "movie"},
					{"Title": "Matrix the Series", "imdbID": "tt0000002", "Type": "series"},
					{"Title": "The Matrix Reloaded", "imdbID": "tt0000003", "Type": "movie"}
				],
				"totalResults": "3", "Response": "True"
			}`)
			return
		}
		id := q.Get("i")
		movieType := "movie"
		if id == "tt0000002" {
			movieType = "series"
		}
		fmt.Fprintf(w, `{"Title": "Movie %s", "imdbID": %q, "Type": %q, "Response": "True"}`,
			id, id, movieType)
	}))
	defer server.Close()

	repo := newSeedRepo(t)
	_, err := repo.Save(context.Background(), (&MovieData{ImdbID: "tt0000001", Title: "Already Here"}).Normalize())
	require.NoError(t, err)

	seeder := NewSeeder(NewClient(server.URL, "testkey"), repo, time.Millisecond, discardLogger())

	stats, err := seeder.RunLarge(context.Background(), []string{"matrix"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Saved)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)

	// The stored title must not have been overwritten by the refresh.
	existing, err := repo.GetByImdbID(context.Background(), "tt0000001")
	require.NoError(t, err)
	assert.Equal(t, "Already Here", existing.Title)
}

func TestSeeder_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seeder := NewSeeder(NewClient("http://unreachable.invalid", "testkey"), newSeedRepo(t), time.Millisecond, discardLogger())
	stats, err := seeder.Run(ctx, PopularTitles)
	assert.Error(t, err)
	assert.Zero(t, stats.Saved)
}
