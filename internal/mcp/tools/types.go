package tools

import (
	"bytes"
	"encoding/json"

	"tmdb-mcp-server/internal/tmdb"
)

// Projection types. Each struct doubles as the decode target for the upstream
// payload and as the published output shape, so fields not listed here are dropped.

// Page is a paged list of results
type Page[T any] struct {
	Page         int64 `json:"page"`
	TotalPages   int64 `json:"total_pages"`
	TotalResults int64 `json:"total_results"`
	Results      []T   `json:"results"`
}

// MovieSummary is a movie as it appears in search, popular and trending lists
type MovieSummary struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	ReleaseDate  string  `json:"release_date"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	GenreIDs     []int64 `json:"genre_ids"`
	Popularity   float64 `json:"popularity"`
}

// TVShowSummary is a TV show as it appears in search, popular and trending lists
type TVShowSummary struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	FirstAirDate  string   `json:"first_air_date"`
	Overview      string   `json:"overview"`
	VoteAverage   float64  `json:"vote_average"`
	VoteCount     int64    `json:"vote_count"`
	PosterPath    *string  `json:"poster_path"`
	BackdropPath  *string  `json:"backdrop_path"`
	GenreIDs      []int64  `json:"genre_ids"`
	Popularity    float64  `json:"popularity"`
	OriginCountry []string `json:"origin_country"`
}

// PersonSummary is a person as it appears in search results
type PersonSummary struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	ProfilePath        *string         `json:"profile_path"`
	Adult              bool            `json:"adult"`
	Gender             int64           `json:"gender"`
	KnownForDepartment string          `json:"known_for_department"`
	Popularity         float64         `json:"popularity"`
	KnownFor           json.RawMessage `json:"known_for"`
}

// MovieDetails is the full record for one movie
type MovieDetails struct {
	ID                  int64           `json:"id"`
	Title               string          `json:"title"`
	OriginalTitle       string          `json:"original_title"`
	Overview            string          `json:"overview"`
	ReleaseDate         string          `json:"release_date"`
	Runtime             *int64          `json:"runtime"`
	VoteAverage         float64         `json:"vote_average"`
	VoteCount           int64           `json:"vote_count"`
	Popularity          float64         `json:"popularity"`
	Budget              int64           `json:"budget"`
	Revenue             int64           `json:"revenue"`
	Genres              json.RawMessage `json:"genres"`
	ProductionCompanies json.RawMessage `json:"production_companies"`
	ProductionCountries json.RawMessage `json:"production_countries"`
	SpokenLanguages     json.RawMessage `json:"spoken_languages"`
	PosterPath          *string         `json:"poster_path"`
	BackdropPath        *string         `json:"backdrop_path"`
	Homepage            *string         `json:"homepage"`
	IMDbID              *string         `json:"imdb_id"`
	Status              string          `json:"status"`
	Tagline             *string         `json:"tagline"`

	// Present only when requested through append_to_response
	Credits json.RawMessage `json:"credits,omitempty"`
	Videos  json.RawMessage `json:"videos,omitempty"`
	Reviews json.RawMessage `json:"reviews,omitempty"`
}

// TVShowDetails is the full record for one TV show
type TVShowDetails struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	OriginalName        string          `json:"original_name"`
	Overview            string          `json:"overview"`
	FirstAirDate        *string         `json:"first_air_date"`
	LastAirDate         *string         `json:"last_air_date"`
	NumberOfEpisodes    *int64          `json:"number_of_episodes"`
	NumberOfSeasons     *int64          `json:"number_of_seasons"`
	VoteAverage         float64         `json:"vote_average"`
	VoteCount           int64           `json:"vote_count"`
	Popularity          float64         `json:"popularity"`
	Genres              json.RawMessage `json:"genres"`
	CreatedBy           json.RawMessage `json:"created_by"`
	EpisodeRunTime      []int64         `json:"episode_run_time"`
	InProduction        bool            `json:"in_production"`
	Languages           []string        `json:"languages"`
	Networks            json.RawMessage `json:"networks"`
	OriginCountry       []string        `json:"origin_country"`
	ProductionCompanies json.RawMessage `json:"production_companies"`
	ProductionCountries json.RawMessage `json:"production_countries"`
	Seasons             json.RawMessage `json:"seasons"`
	SpokenLanguages     json.RawMessage `json:"spoken_languages"`
	Status              string          `json:"status"`
	Tagline             *string         `json:"tagline"`
	Type                string          `json:"type"`
	PosterPath          *string         `json:"poster_path"`
	BackdropPath        *string         `json:"backdrop_path"`
	Homepage            *string         `json:"homepage"`

	Credits json.RawMessage `json:"credits,omitempty"`
	Videos  json.RawMessage `json:"videos,omitempty"`
	Reviews json.RawMessage `json:"reviews,omitempty"`
}

// PersonDetails is the full record for one person
type PersonDetails struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Biography          string          `json:"biography"`
	Birthday           *string         `json:"birthday"`
	Deathday           *string         `json:"deathday"`
	PlaceOfBirth       *string         `json:"place_of_birth"`
	ProfilePath        *string         `json:"profile_path"`
	Adult              bool            `json:"adult"`
	AlsoKnownAs        []string        `json:"also_known_as"`
	Gender             int64           `json:"gender"`
	Homepage           *string         `json:"homepage"`
	IMDbID             *string         `json:"imdb_id"`
	KnownForDepartment string          `json:"known_for_department"`
	Popularity         float64         `json:"popularity"`
	MovieCredits       json.RawMessage `json:"movie_credits,omitempty"`
	TVCredits          json.RawMessage `json:"tv_credits,omitempty"`
}

// withImages rewrites relative image paths into CDN URLs

func (m MovieSummary) withImages(images tmdb.Images) MovieSummary {
	m.PosterPath = images.Poster(m.PosterPath)
	m.BackdropPath = images.Backdrop(m.BackdropPath)
	return m
}

func (s TVShowSummary) withImages(images tmdb.Images) TVShowSummary {
	s.PosterPath = images.Poster(s.PosterPath)
	s.BackdropPath = images.Backdrop(s.BackdropPath)
	return s
}

func (p PersonSummary) withImages(images tmdb.Images) PersonSummary {
	p.ProfilePath = images.Profile(p.ProfilePath)
	return p
}

func (d *MovieDetails) project(images tmdb.Images) {
	d.PosterPath = images.Poster(d.PosterPath)
	d.BackdropPath = images.Backdrop(d.BackdropPath)
	d.Credits = attached(d.Credits)
	d.Videos = attached(d.Videos)
	d.Reviews = attached(d.Reviews)
}

func (d *TVShowDetails) project(images tmdb.Images) {
	d.PosterPath = images.Poster(d.PosterPath)
	d.BackdropPath = images.Backdrop(d.BackdropPath)
	d.Credits = attached(d.Credits)
	d.Videos = attached(d.Videos)
	d.Reviews = attached(d.Reviews)
}

func (d *PersonDetails) project(images tmdb.Images) {
	d.ProfilePath = images.Profile(d.ProfilePath)
	d.MovieCredits = attached(d.MovieCredits)
	d.TVCredits = attached(d.TVCredits)
}

// attached drops append_to_response blocks that came back empty or null
func attached(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0,
		bytes.Equal(trimmed, []byte("null")),
		bytes.Equal(trimmed, []byte("false")),
		bytes.Equal(trimmed, []byte(`""`)),
		bytes.Equal(trimmed, []byte("0")):
		return nil
	}
	return raw
}

// mapResults applies fn to every element of results
func mapResults[T any](results []T, fn func(T) T) []T {
	out := make([]T, len(results))
	for i, r := range results {
		out[i] = fn(r)
	}
	return out
}
