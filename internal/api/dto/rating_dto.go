package dto

import (
	"time"

	"moviemeter/internal/api/models"
)

// CreateUserRatingDTO is the body of POST /api/movies/:imdbId/ratings.
type CreateUserRatingDTO struct {
	UserID string  `json:"user_id" binding:"required"`
	Score  float64 `json:"score" binding:"min=0,max=10"`
}

// UserRatingResponse is one user rating annotated with the rater's username.
type UserRatingResponse struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Score    float64   `json:"score"`
	RatedAt  time.Time `json:"rated_at"`
}

// FromModelToUserRatingResponse converts a UserRating (with its User
// preloaded) to the response shape.
func FromModelToUserRatingResponse(r *models.UserRating) *UserRatingResponse {
	return &UserRatingResponse{
		UserID:   r.UserID,
		Username: r.User.Username,
		Score:    r.Score,
		RatedAt:  r.RatedAt,
	}
}

// AverageRatingResponse is the payload of GET /api/movies/:imdbId/ratings/average.
// Average is null when the movie has no user ratings yet.
type AverageRatingResponse struct {
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}
