package models

import "time"

// Movie is the denormalized movie row keyed by IMDb id. The flat
// Genre/Director/Writer/Actors text columns are the legacy representation;
// every save also fans the same values out into the normalized relation
// tables, so the two never diverge in content.
type Movie struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ImdbID     string    `json:"imdb_id" gorm:"column:imdb_id;uniqueIndex;not null"`
	Title      string    `json:"title" gorm:"not null"`
	Year       *int      `json:"year,omitempty"`
	Rated      *string   `json:"rated,omitempty"`
	Released   *string   `json:"released,omitempty"`
	Runtime    *string   `json:"runtime,omitempty"`
	Genre      *string   `json:"genre,omitempty"`
	Director   *string   `json:"director,omitempty"`
	Writer     *string   `json:"writer,omitempty"`
	Actors     *string   `json:"actors,omitempty"`
	Plot       *string   `json:"plot,omitempty"`
	Language   *string   `json:"language,omitempty"`
	Country    *string   `json:"country,omitempty"`
	Awards     *string   `json:"awards,omitempty"`
	Poster     *string   `json:"poster,omitempty"`
	ImdbRating *float64  `json:"imdb_rating,omitempty" gorm:"index"`
	ImdbVotes  *string   `json:"imdb_votes,omitempty"`
	Type       *string   `json:"type,omitempty"`
	BoxOffice  *string   `json:"box_office,omitempty"`
	Production *string   `json:"production,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Movie) TableName() string {
	return "movies"
}

// MovieRecord is the joined read shape: a movie row plus the deduplicated,
// comma-joined entity names aggregated from the normalized tables. The
// aggregate columns shadow the legacy flat text on the way out.
type MovieRecord struct {
	ID         int64    `json:"id"`
	ImdbID     string   `json:"imdb_id"`
	Title      string   `json:"title"`
	Year       *int     `json:"year"`
	Rated      *string  `json:"rated"`
	Released   *string  `json:"released"`
	Runtime    *string  `json:"runtime"`
	Plot       *string  `json:"plot"`
	Language   *string  `json:"language"`
	Country    *string  `json:"country"`
	Awards     *string  `json:"awards"`
	Poster     *string  `json:"poster"`
	ImdbRating *float64 `json:"imdb_rating"`
	ImdbVotes  *string  `json:"imdb_votes"`
	Type       *string  `json:"type"`
	BoxOffice  *string  `json:"box_office"`
	Production *string  `json:"production"`
	Genre      *string  `json:"genre"`
	Director   *string  `json:"director"`
	Actors     *string  `json:"actors"`
	Writer     *string  `json:"writer"`
}

// MoviePayload is the client-normalized OMDb movie object handed to the
// repository save path. The "N/A" sentinel is already stripped at the client
// boundary: absent fields are nil, Year and ImdbRating are parsed. Ratings
// is nil when the upstream response carried no Ratings array; a non-nil
// empty slice still replaces the stored set.
type MoviePayload struct {
	ImdbID     string
	Title      string
	Year       *int
	Rated      *string
	Released   *string
	Runtime    *string
	Genre      *string
	Director   *string
	Writer     *string
	Actors     *string
	Plot       *string
	Language   *string
	Country    *string
	Awards     *string
	Poster     *string
	ImdbRating *float64
	ImdbVotes  *string
	Type       *string
	BoxOffice  *string
	Production *string
	Ratings    []ExternalRatingPayload
}

// ExternalRatingPayload is one {source, value} entry from the OMDb Ratings
// array.
type ExternalRatingPayload struct {
	Source string
	Value  string
}
