package models

// Name-keyed entity tables fanned out from the flat OMDb text fields.
// Rows are created lazily on first reference and never deleted, even when
// no movie links to them anymore.

type Genre struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"unique;not null"`
}

func (Genre) TableName() string {
	return "genres"
}

type Director struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"unique;not null"`
}

func (Director) TableName() string {
	return "directors"
}

type Actor struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"unique;not null"`
}

func (Actor) TableName() string {
	return "actors"
}

type Writer struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"unique;not null"`
}

func (Writer) TableName() string {
	return "writers"
}

// Explicit join models with a composite unique index so that linking is an
// idempotent insert-or-ignore per (movie, entity) pair.

type MovieGenre struct {
	ID      int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	MovieID int64 `json:"movie_id" gorm:"uniqueIndex:idx_movie_genre;not null"`
	GenreID int64 `json:"genre_id" gorm:"uniqueIndex:idx_movie_genre;not null"`
}

func (MovieGenre) TableName() string {
	return "movie_genres"
}

type MovieDirector struct {
	ID         int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	MovieID    int64 `json:"movie_id" gorm:"uniqueIndex:idx_movie_director;not null"`
	DirectorID int64 `json:"director_id" gorm:"uniqueIndex:idx_movie_director;not null"`
}

func (MovieDirector) TableName() string {
	return "movie_directors"
}

type MovieActor struct {
	ID      int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	MovieID int64 `json:"movie_id" gorm:"uniqueIndex:idx_movie_actor;not null"`
	ActorID int64 `json:"actor_id" gorm:"uniqueIndex:idx_movie_actor;not null"`
}

func (MovieActor) TableName() string {
	return "movie_actors"
}

type MovieWriter struct {
	ID       int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	MovieID  int64 `json:"movie_id" gorm:"uniqueIndex:idx_movie_writer;not null"`
	WriterID int64 `json:"writer_id" gorm:"uniqueIndex:idx_movie_writer;not null"`
}

func (MovieWriter) TableName() string {
	return "movie_writers"
}
