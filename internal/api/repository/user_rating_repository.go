package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"moviemeter/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUserNotFound is returned when a rating references an unknown user.
var ErrUserNotFound = errors.New("user not found")

type UserRatingRepo struct {
	db *gorm.DB
}

func NewUserRatingRepo(db *gorm.DB) *UserRatingRepo {
	return &UserRatingRepo{db: db}
}

// Upsert inserts the user's score for a movie or, on conflict with the
// (user, movie) uniqueness constraint, overwrites score and rated_at.
// Returns the resulting row with its User preloaded.
func (r *UserRatingRepo) Upsert(ctx context.Context, userID string, movieID int64, score float64) (*models.UserRating, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}

	now := time.Now()
	rating := models.UserRating{
		UserID:  userID,
		MovieID: movieID,
		Score:   score,
		RatedAt: now,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":    score,
			"rated_at": now,
		}),
	}).Create(&rating).Error; err != nil {
		return nil, fmt.Errorf("upsert user rating: %w", err)
	}

	var saved models.UserRating
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Preload("User").
		Take(&saved).Error; err != nil {
		return nil, fmt.Errorf("reload user rating: %w", err)
	}
	return &saved, nil
}

// GetByMovie returns all user ratings for a movie, newest first, each with
// its User preloaded for the username annotation.
func (r *UserRatingRepo) GetByMovie(ctx context.Context, movieID int64) ([]models.UserRating, error) {
	var list []models.UserRating
	if err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Preload("User").
		Order("rated_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get user ratings: %w", err)
	}
	return list, nil
}

// Average returns the mean user score for a movie rounded to 2 decimal
// places, or nil (not zero) when no ratings exist.
func (r *UserRatingRepo) Average(ctx context.Context, movieID int64) (*float64, error) {
	var avg sql.NullFloat64
	row := r.db.WithContext(ctx).
		Model(&models.UserRating{}).
		Select("AVG(score)").
		Where("movie_id = ?", movieID).
		Row()
	if err := row.Scan(&avg); err != nil {
		return nil, fmt.Errorf("average user rating: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	rounded := math.Round(avg.Float64*100) / 100
	return &rounded, nil
}

// Count returns the number of user ratings for a movie.
func (r *UserRatingRepo) Count(ctx context.Context, movieID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserRating{}).
		Where("movie_id = ?", movieID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count user ratings: %w", err)
	}
	return count, nil
}
