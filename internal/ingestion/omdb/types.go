package omdb

import (
	"strconv"
	"strings"

	"moviemeter/internal/api/models"
)

// sentinel is OMDb's convention for "field has no value".
const sentinel = "N/A"

// MovieData is the raw OMDb movie object, sentinel and all. Everything is a
// string on the wire; Normalize produces the typed repository payload.
type MovieData struct {
	Title      string       `json:"Title"`
	Year       string       `json:"Year"`
	Rated      string       `json:"Rated"`
	Released   string       `json:"Released"`
	Runtime    string       `json:"Runtime"`
	Genre      string       `json:"Genre"`
	Director   string       `json:"Director"`
	Writer     string       `json:"Writer"`
	Actors     string       `json:"Actors"`
	Plot       string       `json:"Plot"`
	Language   string       `json:"Language"`
	Country    string       `json:"Country"`
	Awards     string       `json:"Awards"`
	Poster     string       `json:"Poster"`
	Ratings    []RatingData `json:"Ratings"`
	ImdbRating string       `json:"imdbRating"`
	ImdbVotes  string       `json:"imdbVotes"`
	ImdbID     string       `json:"imdbID"`
	Type       string       `json:"Type"`
	BoxOffice  string       `json:"BoxOffice"`
	Production string       `json:"Production"`
	Response   string       `json:"Response"`
	Error      string       `json:"Error"`
}

// RatingData is one external rating entry, e.g.
// {"Source": "Rotten Tomatoes", "Value": "87%"}.
type RatingData struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// SearchResponse is the paged result of an OMDb title search.
type SearchResponse struct {
	Search       []SearchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
	Response     string       `json:"Response"`
	Error        string       `json:"Error"`
}

// SearchItem is one search hit; details come from a follow-up GetByID.
type SearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// Normalize strips the "N/A" sentinel and parses the numeric fields so the
// repository never sees OMDb's string conventions. Absent fields become nil.
func (m *MovieData) Normalize() *models.MoviePayload {
	p := &models.MoviePayload{
		ImdbID:     m.ImdbID,
		Title:      m.Title,
		Year:       parseYear(m.Year),
		Rated:      optional(m.Rated),
		Released:   optional(m.Released),
		Runtime:    optional(m.Runtime),
		Genre:      optional(m.Genre),
		Director:   optional(m.Director),
		Writer:     optional(m.Writer),
		Actors:     optional(m.Actors),
		Plot:       optional(m.Plot),
		Language:   optional(m.Language),
		Country:    optional(m.Country),
		Awards:     optional(m.Awards),
		Poster:     optional(m.Poster),
		ImdbRating: parseRating(m.ImdbRating),
		ImdbVotes:  optional(m.ImdbVotes),
		Type:       optional(m.Type),
		BoxOffice:  optional(m.BoxOffice),
		Production: optional(m.Production),
	}
	if m.Ratings != nil {
		p.Ratings = make([]models.ExternalRatingPayload, 0, len(m.Ratings))
		for _, r := range m.Ratings {
			p.Ratings = append(p.Ratings, models.ExternalRatingPayload{
				Source: r.Source,
				Value:  r.Value,
			})
		}
	}
	return p
}

func optional(s string) *string {
	if s == "" || s == sentinel {
		return nil
	}
	return &s
}

// parseYear reads the leading integer so series ranges like "2015–2019"
// resolve to the first year. Absent or unparseable values become nil.
func parseYear(s string) *int {
	digits := s
	for i, r := range s {
		if r < '0' || r > '9' {
			digits = s[:i]
			break
		}
	}
	if digits == "" {
		return nil
	}
	year, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &year
}

func parseRating(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == sentinel {
		return nil
	}
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &rating
}
