package models

import "time"

// ExternalRating is one third-party score ({source, value}) attached to a
// movie, e.g. {"Internet Movie Database", "8.8/10"}. Rows are not
// deduplicated by content: every save replaces a movie's set wholesale.
type ExternalRating struct {
	ID      int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	MovieID int64  `json:"movie_id" gorm:"index;not null"`
	Source  string `json:"source" gorm:"not null"`
	Value   string `json:"value" gorm:"not null"`
}

func (ExternalRating) TableName() string {
	return "external_ratings"
}

// UserRating is a single user's 0-10 score for a movie, unique per
// (user, movie). Re-rating overwrites score and rated_at.
type UserRating struct {
	ID      int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID  string    `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_user_movie;not null"`
	MovieID int64     `json:"movie_id" gorm:"uniqueIndex:idx_user_movie;not null"`
	Score   float64   `json:"score" gorm:"not null;check:score >= 0 AND score <= 10"`
	RatedAt time.Time `json:"rated_at" gorm:"not null"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (UserRating) TableName() string {
	return "user_ratings"
}
