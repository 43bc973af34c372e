package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moviemeter/internal/api/dto"
	"moviemeter/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrMissingImdbID is returned by Save when the payload has no IMDb id.
	ErrMissingImdbID = errors.New("movie payload is missing imdb id")
	// ErrMovieNotFound is returned by single-record lookups.
	ErrMovieNotFound = errors.New("movie not found")
)

// searchResultCap bounds every search result set.
const searchResultCap = 50

// joinedColumns aggregates the normalized relations back into the flat,
// comma-joined shape the API serves. GROUP_CONCAT(DISTINCT ...) yields NULL
// for movies with no links, which scans into a nil pointer.
const joinedColumns = `
	m.id, m.imdb_id, m.title, m.year, m.rated, m.released, m.runtime,
	m.plot, m.language, m.country, m.awards, m.poster,
	m.imdb_rating, m.imdb_votes, m.type, m.box_office, m.production,
	GROUP_CONCAT(DISTINCT g.name) AS genre,
	GROUP_CONCAT(DISTINCT d.name) AS director,
	GROUP_CONCAT(DISTINCT a.name) AS actors,
	GROUP_CONCAT(DISTINCT w.name) AS writer`

type MovieRepo struct {
	db *gorm.DB
}

func NewMovieRepo(db *gorm.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// joined builds the base query for the joined read shape.
func (r *MovieRepo) joined(db *gorm.DB) *gorm.DB {
	return db.Table("movies m").
		Select(joinedColumns).
		Joins("LEFT JOIN movie_genres mg ON mg.movie_id = m.id").
		Joins("LEFT JOIN genres g ON g.id = mg.genre_id").
		Joins("LEFT JOIN movie_directors md ON md.movie_id = m.id").
		Joins("LEFT JOIN directors d ON d.id = md.director_id").
		Joins("LEFT JOIN movie_actors ma ON ma.movie_id = m.id").
		Joins("LEFT JOIN actors a ON a.id = ma.actor_id").
		Joins("LEFT JOIN movie_writers mw ON mw.movie_id = m.id").
		Joins("LEFT JOIN writers w ON w.id = mw.writer_id").
		Group("m.id")
}

// Save upserts the denormalized movie row, fans the flat genre/director/
// actor/writer text out into the normalized tables and replaces the
// external ratings, all inside one transaction. Re-saving the same IMDb id
// updates in place and never duplicates link rows. Returns the freshly-read
// joined record.
func (r *MovieRepo) Save(ctx context.Context, p *models.MoviePayload) (*models.MovieRecord, error) {
	if strings.TrimSpace(p.ImdbID) == "" {
		return nil, ErrMissingImdbID
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin save: %w", tx.Error)
	}

	movie := models.Movie{
		ImdbID:     p.ImdbID,
		Title:      p.Title,
		Year:       p.Year,
		Rated:      p.Rated,
		Released:   p.Released,
		Runtime:    p.Runtime,
		Genre:      p.Genre,
		Director:   p.Director,
		Writer:     p.Writer,
		Actors:     p.Actors,
		Plot:       p.Plot,
		Language:   p.Language,
		Country:    p.Country,
		Awards:     p.Awards,
		Poster:     p.Poster,
		ImdbRating: p.ImdbRating,
		ImdbVotes:  p.ImdbVotes,
		Type:       p.Type,
		BoxOffice:  p.BoxOffice,
		Production: p.Production,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "imdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "year", "rated", "released", "runtime", "genre",
			"director", "writer", "actors", "plot", "language", "country",
			"awards", "poster", "imdb_rating", "imdb_votes", "type",
			"box_office", "production", "updated_at",
		}),
	}).Create(&movie).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("upsert movie %s: %w", p.ImdbID, err)
	}

	// On the conflict path SQLite does not report the updated rowid, so
	// resolve the internal id by the natural key.
	var saved models.Movie
	if err := tx.Where("imdb_id = ?", p.ImdbID).Take(&saved).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("reload movie %s: %w", p.ImdbID, err)
	}

	if err := linkGenres(tx, saved.ID, p.Genre); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := linkDirectors(tx, saved.ID, p.Director); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := linkActors(tx, saved.ID, p.Actors); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := linkWriters(tx, saved.ID, p.Writer); err != nil {
		tx.Rollback()
		return nil, err
	}

	if p.Ratings != nil {
		if err := replaceExternalRatings(tx, saved.ID, p.Ratings); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit save %s: %w", p.ImdbID, err)
	}

	return r.GetByID(ctx, saved.ID)
}

// linkGenres creates the named genres lazily and links them to the movie.
// Both steps are idempotent per (movie, name).
func linkGenres(tx *gorm.DB, movieID int64, flat *string) error {
	for _, name := range splitList(flat) {
		var g models.Genre
		if err := tx.Where(models.Genre{Name: name}).FirstOrCreate(&g).Error; err != nil {
			return fmt.Errorf("genre %q: %w", name, err)
		}
		link := models.MovieGenre{MovieID: movieID, GenreID: g.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("link genre %q: %w", name, err)
		}
	}
	return nil
}

func linkDirectors(tx *gorm.DB, movieID int64, flat *string) error {
	for _, name := range splitList(flat) {
		var d models.Director
		if err := tx.Where(models.Director{Name: name}).FirstOrCreate(&d).Error; err != nil {
			return fmt.Errorf("director %q: %w", name, err)
		}
		link := models.MovieDirector{MovieID: movieID, DirectorID: d.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("link director %q: %w", name, err)
		}
	}
	return nil
}

func linkActors(tx *gorm.DB, movieID int64, flat *string) error {
	for _, name := range splitList(flat) {
		var a models.Actor
		if err := tx.Where(models.Actor{Name: name}).FirstOrCreate(&a).Error; err != nil {
			return fmt.Errorf("actor %q: %w", name, err)
		}
		link := models.MovieActor{MovieID: movieID, ActorID: a.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("link actor %q: %w", name, err)
		}
	}
	return nil
}

func linkWriters(tx *gorm.DB, movieID int64, flat *string) error {
	for _, name := range splitList(flat) {
		var w models.Writer
		if err := tx.Where(models.Writer{Name: name}).FirstOrCreate(&w).Error; err != nil {
			return fmt.Errorf("writer %q: %w", name, err)
		}
		link := models.MovieWriter{MovieID: movieID, WriterID: w.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("link writer %q: %w", name, err)
		}
	}
	return nil
}

// replaceExternalRatings wipes the movie's stored external ratings and
// inserts the new set in payload order.
func replaceExternalRatings(tx *gorm.DB, movieID int64, ratings []models.ExternalRatingPayload) error {
	if err := tx.Where("movie_id = ?", movieID).Delete(&models.ExternalRating{}).Error; err != nil {
		return fmt.Errorf("clear external ratings: %w", err)
	}
	for _, er := range ratings {
		row := models.ExternalRating{MovieID: movieID, Source: er.Source, Value: er.Value}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("external rating %q: %w", er.Source, err)
		}
	}
	return nil
}

// splitList splits a flat comma-joined text field into trimmed names.
func splitList(flat *string) []string {
	if flat == nil {
		return nil
	}
	parts := strings.Split(*flat, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// GetAll returns every movie in the joined shape, best-rated first. SQLite
// sorts NULL ratings last on a descending order.
func (r *MovieRepo) GetAll(ctx context.Context) ([]models.MovieRecord, error) {
	var list []models.MovieRecord
	if err := r.joined(r.db.WithContext(ctx)).
		Order("m.imdb_rating DESC").
		Scan(&list).Error; err != nil {
		return nil, fmt.Errorf("get all movies: %w", err)
	}
	return list, nil
}

// GetByImdbID returns one joined record by IMDb id.
func (r *MovieRepo) GetByImdbID(ctx context.Context, imdbID string) (*models.MovieRecord, error) {
	var rec models.MovieRecord
	err := r.joined(r.db.WithContext(ctx)).
		Where("m.imdb_id = ?", imdbID).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("get movie %s: %w", imdbID, err)
	}
	return &rec, nil
}

// GetByID returns one joined record by internal id.
func (r *MovieRepo) GetByID(ctx context.Context, id int64) (*models.MovieRecord, error) {
	var rec models.MovieRecord
	err := r.joined(r.db.WithContext(ctx)).
		Where("m.id = ?", id).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("get movie id %d: %w", id, err)
	}
	return &rec, nil
}

// Search applies the optional filters with logical AND. Genre, director and
// actor match any individual linked entity name through an EXISTS subquery;
// the legacy flat columns are never consulted. Results are capped at 50
// rows, best-rated first. An empty result is not an error.
func (r *MovieRepo) Search(ctx context.Context, f dto.SearchFilters) ([]models.MovieRecord, error) {
	q := r.joined(r.db.WithContext(ctx))

	if f.Title != "" {
		q = q.Where("m.title LIKE ?", "%"+f.Title+"%")
	}
	if f.Genre != "" {
		q = q.Where(`EXISTS (
			SELECT 1 FROM movie_genres mg2
			JOIN genres g2 ON g2.id = mg2.genre_id
			WHERE mg2.movie_id = m.id AND g2.name LIKE ?)`, "%"+f.Genre+"%")
	}
	if f.Year != nil {
		q = q.Where("m.year = ?", *f.Year)
	}
	if f.Director != "" {
		q = q.Where(`EXISTS (
			SELECT 1 FROM movie_directors md2
			JOIN directors d2 ON d2.id = md2.director_id
			WHERE md2.movie_id = m.id AND d2.name LIKE ?)`, "%"+f.Director+"%")
	}
	if f.Actor != "" {
		q = q.Where(`EXISTS (
			SELECT 1 FROM movie_actors ma2
			JOIN actors a2 ON a2.id = ma2.actor_id
			WHERE ma2.movie_id = m.id AND a2.name LIKE ?)`, "%"+f.Actor+"%")
	}
	if f.MinRating != nil {
		q = q.Where("m.imdb_rating >= ?", *f.MinRating)
	}

	var list []models.MovieRecord
	if err := q.Order("m.imdb_rating DESC").
		Limit(searchResultCap).
		Scan(&list).Error; err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return list, nil
}

// Delete removes the movie row and, in the same transaction, its link rows,
// external ratings and user ratings. The shared genre/director/actor/writer
// entity rows are left untouched. Returns false (not an error) when the
// IMDb id does not exist.
func (r *MovieRepo) Delete(ctx context.Context, imdbID string) (bool, error) {
	var movie models.Movie
	err := r.db.WithContext(ctx).Where("imdb_id = ?", imdbID).Take(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find movie %s: %w", imdbID, err)
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return false, fmt.Errorf("begin delete: %w", tx.Error)
	}
	for _, m := range []interface{}{
		&models.MovieGenre{},
		&models.MovieDirector{},
		&models.MovieActor{},
		&models.MovieWriter{},
		&models.ExternalRating{},
		&models.UserRating{},
	} {
		if err := tx.Where("movie_id = ?", movie.ID).Delete(m).Error; err != nil {
			tx.Rollback()
			return false, fmt.Errorf("delete movie %s relations: %w", imdbID, err)
		}
	}
	if err := tx.Delete(&movie).Error; err != nil {
		tx.Rollback()
		return false, fmt.Errorf("delete movie %s: %w", imdbID, err)
	}
	if err := tx.Commit().Error; err != nil {
		return false, fmt.Errorf("commit delete %s: %w", imdbID, err)
	}
	return true, nil
}
