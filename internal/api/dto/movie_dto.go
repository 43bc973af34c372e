package dto

// FetchMovieRequest is the body of POST /api/movies/fetch. Either ImdbID or
// Title must be present; ImdbID wins when both are given.
type FetchMovieRequest struct {
	Title  string `json:"title"`
	Year   *int   `json:"year"`
	ImdbID string `json:"imdbId"`
}

// SearchFilters are the optional, AND-combined local search filters. Title,
// genre, director and actor are case-insensitive substring matches; genre,
// director and actor match against individual linked entity names, never the
// legacy flat columns.
type SearchFilters struct {
	Title     string   `form:"title"`
	Genre     string   `form:"genre"`
	Year      *int     `form:"year"`
	Director  string   `form:"director"`
	Actor     string   `form:"actor"`
	MinRating *float64 `form:"minRating"`
}

// SearchQuery is the full query-string shape of GET /api/movies/search.
type SearchQuery struct {
	SearchFilters
	FetchFromOMDb bool `form:"fetchFromOMDb"`
}
