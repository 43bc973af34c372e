package service

import (
	"context"

	"moviemeter/internal/api/dto"
	"moviemeter/internal/api/repository"
)

type RatingService interface {
	RateMovie(ctx context.Context, userID, imdbID string, score float64) (*dto.UserRatingResponse, error)
	GetMovieRatings(ctx context.Context, imdbID string) ([]dto.UserRatingResponse, error)
	GetAverage(ctx context.Context, imdbID string) (*dto.AverageRatingResponse, error)
}

type ratingService struct {
	ratingRepo *repository.UserRatingRepo
	movieRepo  *repository.MovieRepo
}

func NewRatingService(ratingRepo *repository.UserRatingRepo, movieRepo *repository.MovieRepo) RatingService {
	return &ratingService{ratingRepo: ratingRepo, movieRepo: movieRepo}
}

// RateMovie upserts the user's score for the movie addressed by IMDb id.
func (s *ratingService) RateMovie(ctx context.Context, userID, imdbID string, score float64) (*dto.UserRatingResponse, error) {
	movie, err := s.movieRepo.GetByImdbID(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	rating, err := s.ratingRepo.Upsert(ctx, userID, movie.ID, score)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserRatingResponse(rating), nil
}

// GetMovieRatings returns the movie's user ratings, newest first.
func (s *ratingService) GetMovieRatings(ctx context.Context, imdbID string) ([]dto.UserRatingResponse, error) {
	movie, err := s.movieRepo.GetByImdbID(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	ratings, err := s.ratingRepo.GetByMovie(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserRatingResponse, 0, len(ratings))
	for i := range ratings {
		resp = append(resp, *dto.FromModelToUserRatingResponse(&ratings[i]))
	}
	return resp, nil
}

// GetAverage returns the mean user score (nil when unrated) and the rating
// count.
func (s *ratingService) GetAverage(ctx context.Context, imdbID string) (*dto.AverageRatingResponse, error) {
	movie, err := s.movieRepo.GetByImdbID(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	avg, err := s.ratingRepo.Average(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.ratingRepo.Count(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AverageRatingResponse{Average: avg, Count: count}, nil
}
