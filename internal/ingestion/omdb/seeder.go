package omdb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"moviemeter/internal/api/repository"
)

// SeedTitle is one (title, year) pair to bulk-load.
type SeedTitle struct {
	Title string
	Year  int
}

// PopularTitles is the default curated seed list.
var PopularTitles = []SeedTitle{
	{"The Shawshank Redemption", 1994},
	{"The Godfather", 1972},
	{"The Dark Knight", 2008},
	{"Pulp Fiction", 1994},
	{"Forrest Gump", 1994},
	{"Inception", 2010},
	{"The Matrix", 1999},
	{"Interstellar", 2014},
	{"The Lord of the Rings: The Return of the King", 2003},
	{"Fight Club", 1999},
	{"Goodfellas", 1990},
	{"The Empire Strikes Back", 1980},
	{"The Silence of the Lambs", 1991},
	{"Saving Private Ryan", 1998},
	{"Jurassic Park", 1993},
	{"Terminator 2: Judgment Day", 1991},
	{"Avengers: Endgame", 2019},
	{"Spider-Man: No Way Home", 2021},
	{"Dune", 2021},
	{"Oppenheimer", 2023},
}

// SeedStats summarizes one seeding run.
type SeedStats struct {
	Saved   int
	Skipped int
	Failed  int
}

// Seeder bulk-loads movies through the rate-limited client. It is an
// offline batch collaborator: it runs serially with a fixed inter-call
// delay on top of the client's own limiter, and a per-title failure only
// increments the failure counter.
type Seeder struct {
	client *Client
	repo   *repository.MovieRepo
	delay  time.Duration
	logger *slog.Logger
}

func NewSeeder(client *Client, repo *repository.MovieRepo, delay time.Duration, logger *slog.Logger) *Seeder {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &Seeder{client: client, repo: repo, delay: delay, logger: logger}
}

// Run fetches and saves each title in order. Cancellation stops the batch
// between items; anything else keeps going.
func (s *Seeder) Run(ctx context.Context, titles []SeedTitle) (SeedStats, error) {
	var stats SeedStats
	for _, t := range titles {
		if err := sleepCtx(ctx, s.delay); err != nil {
			return stats, err
		}

		s.logger.Info("fetching title", "title", t.Title, "year", t.Year)
		year := t.Year
		data, err := s.client.GetByTitle(ctx, t.Title, &year)
		if err != nil {
			if ctx.Err() != nil {
				return stats, err
			}
			s.logger.Warn("fetch failed", "title", t.Title, "error", err)
			stats.Failed++
			continue
		}

		if _, err := s.repo.Save(ctx, data.Normalize()); err != nil {
			s.logger.Warn("save failed", "title", t.Title, "error", err)
			stats.Failed++
			continue
		}
		stats.Saved++
	}
	return stats, nil
}

// RunLarge searches each keyword term across the given number of result
// pages and saves full details for every hit not already stored.
func (s *Seeder) RunLarge(ctx context.Context, terms []string, pages int) (SeedStats, error) {
	var stats SeedStats
	for _, term := range terms {
		for page := 1; page <= pages; page++ {
			result, err := s.client.SearchByTitle(ctx, term, page)
			if err != nil {
				if ctx.Err() != nil {
					return stats, err
				}
				s.logger.Warn("search failed", "term", term, "page", page, "error", err)
				stats.Failed++
				break
			}
			if len(result.Search) == 0 {
				break
			}

			for _, item := range result.Search {
				if err := sleepCtx(ctx, s.delay); err != nil {
					return stats, err
				}

				if _, err := s.repo.GetByImdbID(ctx, item.ImdbID); err == nil {
					stats.Skipped++
					continue
				} else if !errors.Is(err, repository.ErrMovieNotFound) {
					stats.Failed++
					continue
				}

				data, err := s.client.GetByID(ctx, item.ImdbID)
				if err != nil {
					if ctx.Err() != nil {
						return stats, err
					}
					s.logger.Warn("fetch failed", "imdb_id", item.ImdbID, "error", err)
					stats.Failed++
					continue
				}
				if data.Type != "movie" {
					stats.Skipped++
					continue
				}
				if _, err := s.repo.Save(ctx, data.Normalize()); err != nil {
					s.logger.Warn("save failed", "imdb_id", item.ImdbID, "error", err)
					stats.Failed++
					continue
				}
				stats.Saved++
			}
		}
	}
	return stats, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
