package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"moviemeter/internal/api/dto"
	"moviemeter/internal/api/models"
	"moviemeter/internal/api/repository"
	"moviemeter/internal/ingestion/omdb"
)

// ErrMissingQuery is returned by FetchAndSave when neither a title nor an
// IMDb id is given.
var ErrMissingQuery = errors.New("please provide either title or imdbId")

// UpstreamError marks a failure reported by, or while reaching, the OMDb
// API. Its message is safe to surface to callers.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

// MetadataClient is the slice of the OMDb client the service depends on.
type MetadataClient interface {
	SearchByTitle(ctx context.Context, title string, page int) (*omdb.SearchResponse, error)
	GetByID(ctx context.Context, imdbID string) (*omdb.MovieData, error)
	GetByTitle(ctx context.Context, title string, year *int) (*omdb.MovieData, error)
}

type MovieService interface {
	FetchAndSave(ctx context.Context, title string, year *int, imdbID string) (*models.MovieRecord, error)
	Search(ctx context.Context, q dto.SearchQuery) ([]models.MovieRecord, error)
	GetAll(ctx context.Context) ([]models.MovieRecord, error)
	GetByImdbID(ctx context.Context, imdbID string) (*models.MovieRecord, error)
	Delete(ctx context.Context, imdbID string) (bool, error)
}

// refreshDetailCap bounds how many search hits get their details fetched
// and saved during a fetchFromOMDb refresh.
const refreshDetailCap = 10

type movieService struct {
	repo   *repository.MovieRepo
	client MetadataClient
	logger *slog.Logger
}

func NewMovieService(repo *repository.MovieRepo, client MetadataClient, logger *slog.Logger) MovieService {
	return &movieService{repo: repo, client: client, logger: logger}
}

// FetchAndSave looks the movie up on OMDb (by IMDb id when given, else by
// title and optional year), persists it and returns the joined record.
func (s *movieService) FetchAndSave(ctx context.Context, title string, year *int, imdbID string) (*models.MovieRecord, error) {
	title = strings.TrimSpace(title)
	imdbID = strings.TrimSpace(imdbID)
	if title == "" && imdbID == "" {
		return nil, ErrMissingQuery
	}

	var (
		data *omdb.MovieData
		err  error
	)
	if imdbID != "" {
		data, err = s.client.GetByID(ctx, imdbID)
	} else {
		data, err = s.client.GetByTitle(ctx, title, year)
	}
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	return s.repo.Save(ctx, data.Normalize())
}

// Search optionally refreshes the local store from OMDb first, then runs
// the filtered local search. Refresh failures are logged and never fail the
// search itself.
func (s *movieService) Search(ctx context.Context, q dto.SearchQuery) ([]models.MovieRecord, error) {
	if q.FetchFromOMDb && q.Title != "" {
		s.refreshFromOMDb(ctx, q.Title)
	}
	return s.repo.Search(ctx, q.SearchFilters)
}

// refreshFromOMDb searches OMDb for the title and saves full details for up
// to refreshDetailCap hits, best effort.
func (s *movieService) refreshFromOMDb(ctx context.Context, title string) {
	result, err := s.client.SearchByTitle(ctx, title, 1)
	if err != nil {
		s.logger.Warn("omdb refresh search failed", "title", title, "error", err)
		return
	}

	hits := result.Search
	if len(hits) > refreshDetailCap {
		hits = hits[:refreshDetailCap]
	}
	for _, hit := range hits {
		data, err := s.client.GetByID(ctx, hit.ImdbID)
		if err != nil {
			s.logger.Warn("omdb refresh detail failed", "imdb_id", hit.ImdbID, "error", err)
			continue
		}
		if _, err := s.repo.Save(ctx, data.Normalize()); err != nil {
			s.logger.Warn("omdb refresh save failed", "imdb_id", hit.ImdbID, "error", err)
		}
	}
}

func (s *movieService) GetAll(ctx context.Context) ([]models.MovieRecord, error) {
	return s.repo.GetAll(ctx)
}

func (s *movieService) GetByImdbID(ctx context.Context, imdbID string) (*models.MovieRecord, error) {
	return s.repo.GetByImdbID(ctx, imdbID)
}

func (s *movieService) Delete(ctx context.Context, imdbID string) (bool, error) {
	return s.repo.Delete(ctx, imdbID)
}
