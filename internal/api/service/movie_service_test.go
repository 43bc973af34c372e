package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"moviemeter/database"
	"moviemeter/internal/api/dto"
	"moviemeter/internal/api/repository"
	"moviemeter/internal/api/service"
	"moviemeter/internal/ingestion/omdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- MOCK METADATA CLIENT ---

type MockMetadataClient struct {
	mock.Mock
}

func (m *MockMetadataClient) SearchByTitle(ctx context.Context, title string, page int) (*omdb.SearchResponse, error) {
	args := m.Called(ctx, title, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*omdb.SearchResponse), args.Error(1)
}

func (m *MockMetadataClient) GetByID(ctx context.Context, imdbID string) (*omdb.MovieData, error) {
	args := m.Called(ctx, imdbID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*omdb.MovieData), args.Error(1)
}

func (m *MockMetadataClient) GetByTitle(ctx context.Context, title string, year *int) (*omdb.MovieData, error) {
	args := m.Called(ctx, title, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*omdb.MovieData), args.Error(1)
}

// --- SETUP ---

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newMovieService(t *testing.T) (service.MovieService, *repository.MovieRepo, *MockMetadataClient) {
	t.Helper()
	repo := repository.NewMovieRepo(newTestDB(t))
	client := new(MockMetadataClient)
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewMovieService(repo, client, testLogger), repo, client
}

func movieData(imdbID, title string) *omdb.MovieData {
	return &omdb.MovieData{
		Title:      title,
		Year:       "1999",
		Genre:      "Action, Sci-Fi",
		ImdbRating: "8.7",
		ImdbID:     imdbID,
		Type:       "movie",
		Response:   "True",
	}
}

// --- TESTS ---

func TestMovieService_FetchAndSave(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresTitleOrImdbID", func(t *testing.T) {
		svc, _, client := newMovieService(t)
		_, err := svc.FetchAndSave(ctx, "  ", nil, "")
		assert.ErrorIs(t, err, service.ErrMissingQuery)
		client.AssertExpectations(t)
	})

	t.Run("ImdbIDWinsOverTitle", func(t *testing.T) {
		svc, _, client := newMovieService(t)
		client.On("GetByID", mock.Anything, "tt0133093").
			Return(movieData("tt0133093", "The Matrix"), nil).Once()

		rec, err := svc.FetchAndSave(ctx, "ignored title", nil, "tt0133093")
		require.NoError(t, err)
		assert.Equal(t, "The Matrix", rec.Title)
		client.AssertExpectations(t)
		client.AssertNotCalled(t, "GetByTitle", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("FallsBackToTitleLookup", func(t *testing.T) {
		svc, repo, client := newMovieService(t)
		year := 1999
		client.On("GetByTitle", mock.Anything, "The Matrix", &year).
			Return(movieData("tt0133093", "The Matrix"), nil).Once()

		rec, err := svc.FetchAndSave(ctx, "The Matrix", &year, "")
		require.NoError(t, err)
		assert.Equal(t, "tt0133093", rec.ImdbID)

		// Persisted, not just returned.
		stored, err := repo.GetByImdbID(ctx, "tt0133093")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, stored.ID)
		client.AssertExpectations(t)
	})

	t.Run("WrapsUpstreamFailure", func(t *testing.T) {
		svc, _, client := newMovieService(t)
		client.On("GetByID", mock.Anything, "tt0000000").
			Return(nil, &omdb.APIError{Message: "Movie not found!"}).Once()

		_, err := svc.FetchAndSave(ctx, "", nil, "tt0000000")
		require.Error(t, err)

		var upstream *service.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, "Movie not found!", upstream.Error())
		client.AssertExpectations(t)
	})
}

func TestMovieService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("LocalOnlyNeverCallsUpstream", func(t *testing.T) {
		svc, repo, client := newMovieService(t)
		_, err := repo.Save(ctx, movieData("tt0133093", "The Matrix").Normalize())
		require.NoError(t, err)

		list, err := svc.Search(ctx, dto.SearchQuery{
			SearchFilters: dto.SearchFilters{Title: "matrix"},
		})
		require.NoError(t, err)
		assert.Len(t, list, 1)
		client.AssertNotCalled(t, "SearchByTitle", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RefreshSavesUpstreamHits", func(t *testing.T) {
		svc, repo, client := newMovieService(t)
		client.On("SearchByTitle", mock.Anything, "matrix", 1).
			Return(&omdb.SearchResponse{
				Search: []omdb.SearchItem{
					{Title: "The Matrix", ImdbID: "tt0133093"},
					{Title: "The Matrix Reloaded", ImdbID: "tt0234215"},
				},
				Response: "True",
			}, nil).Once()
		client.On("GetByID", mock.Anything, "tt0133093").
			Return(movieData("tt0133093", "The Matrix"), nil).Once()
		client.On("GetByID", mock.Anything, "tt0234215").
			Return(movieData("tt0234215", "The Matrix Reloaded"), nil).Once()

		list, err := svc.Search(ctx, dto.SearchQuery{
			SearchFilters: dto.SearchFilters{Title: "Matrix"},
			FetchFromOMDb: true,
		})
		require.NoError(t, err)
		assert.Len(t, list, 2)

		_, err = repo.GetByImdbID(ctx, "tt0234215")
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("RefreshCapsDetailFetches", func(t *testing.T) {
		svc, _, client := newMovieService(t)

		hits := make([]omdb.SearchItem, 15)
		for i := range hits {
			hits[i] = omdb.SearchItem{ImdbID: fmt.Sprintf("tt%07d", i)}
		}
		client.On("SearchByTitle", mock.Anything, "bulk", 1).
			Return(&omdb.SearchResponse{Search: hits, Response: "True"}, nil).Once()
		client.On("GetByID", mock.Anything, mock.Anything).
			Return(movieData("tt0133093", "Bulk"), nil).Times(10)

		_, err := svc.Search(ctx, dto.SearchQuery{
			SearchFilters: dto.SearchFilters{Title: "bulk"},
			FetchFromOMDb: true,
		})
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("RefreshFailureDoesNotFailSearch", func(t *testing.T) {
		svc, repo, client := newMovieService(t)
		_, err := repo.Save(ctx, movieData("tt0133093", "The Matrix").Normalize())
		require.NoError(t, err)

		client.On("SearchByTitle", mock.Anything, "matrix", 1).
			Return(nil, errors.New("omdb unreachable")).Once()

		list, err := svc.Search(ctx, dto.SearchQuery{
			SearchFilters: dto.SearchFilters{Title: "matrix"},
			FetchFromOMDb: true,
		})
		require.NoError(t, err)
		assert.Len(t, list, 1)
		client.AssertExpectations(t)
	})
}
