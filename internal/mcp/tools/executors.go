package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"tmdb-mcp-server/internal/tmdb"
)

// Executors implements every catalogue tool on top of a TMDB Getter.
// Each method performs exactly one upstream GET.
type Executors struct {
	client tmdb.Getter
	images tmdb.Images
}

// NewExecutors creates the executor set
func NewExecutors(client tmdb.Getter, images tmdb.Images) *Executors {
	return &Executors{client: client, images: images}
}

// fetch performs the upstream GET and decodes the body into out
func (e *Executors) fetch(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, err := e.client.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unexpected response from %s: %w", path, err)
	}
	return nil
}

// fetchPage decodes a paged list and rewrites every result with fn.
// A page without a results array is an unexpected response.
func fetchPage[T any](ctx context.Context, e *Executors, path string, query url.Values, fn func(T) T) (interface{}, error) {
	var page Page[T]
	if err := e.fetch(ctx, path, query, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return nil, fmt.Errorf("unexpected response from %s: results is not a list", path)
	}
	page.Results = mapResults(page.Results, fn)
	return page, nil
}

func (e *Executors) moviePage(ctx context.Context, path string, query url.Values) (interface{}, error) {
	return fetchPage(ctx, e, path, query, func(m MovieSummary) MovieSummary {
		return m.withImages(e.images)
	})
}

func (e *Executors) tvPage(ctx context.Context, path string, query url.Values) (interface{}, error) {
	return fetchPage(ctx, e, path, query, func(s TVShowSummary) TVShowSummary {
		return s.withImages(e.images)
	})
}

// Movies

// SearchMovies handles searchMovies: GET /search/movie
func (e *Executors) SearchMovies(ctx context.Context, args Arguments) (interface{}, error) {
	query := url.Values{}
	args.setIfPresent(query, "query")
	query.Set("page", args.Page())
	args.setIfTruthy(query, "year")

	return e.moviePage(ctx, "/search/movie", query)
}

// GetPopularMovies handles getPopularMovies: GET /movie/popular
func (e *Executors) GetPopularMovies(ctx context.Context, args Arguments) (interface{}, error) {
	query := url.Values{}
	query.Set("page", args.Page())
	args.setIfTruthy(query, "region")

	return e.moviePage(ctx, "/movie/popular", query)
}

// GetTrendingMovies handles getTrendingMovies: GET /trending/movie/{time_window}
func (e *Executors) GetTrendingMovies(ctx context.Context, args Arguments) (interface{}, error) {
	query := url.Values{}
	query.Set("page", args.Page())

	return e.moviePage(ctx, "/trending/movie/"+args.pathSegment("time_window", "day"), query)
}

// GetMovieDetails handles getMovieDetails: GET /movie/{movieId}
func (e *Executors) GetMovieDetails(ctx context.Context, args Arguments) (interface{}, error) {
	query := url.Values{}
	args.setIfTruthy(query, "append_to_response")

	var details MovieDetails
	if err := e.fetch(ctx, "/movie/"+args.pathSegment("movieId", ""), query, &details); err != nil {
		return nil, err
	}
	details.project(e.images)
	return details, nil
}

// TV

// SearchTVShows handles searchTVShows: GET /search/tv
func (e *Executors) SearchTVShows(ctx context.Context, args Arguments) (interface{}, error) {
	query := url.Values{}
	args.setIfPresent(query, "query")
	query.Set("page", args.Page())
	args.setIfTruthy(query, "first_air_date_year")

	return e.tvPage(ctx, "/search/tv", query)
}

// GetPopularTVShows handles getPopularTVShows: GET /tv/popular
func (e *Executors) GetPopularTVShows(ctx context.Context, args Arguments) (interface{}, error) {
	query := url.Values{}
	query.Set("page", args.Page())

	return e.tvPage(ctx, "/tv/popular", query)
}

// GetTrendingTVShows handles getTrendingTVShows: GET /trending/tv/{time_window}
func (e *Executors) GetTrendingTVShows(ctx context.Context, args Arguments) (interface{}, error) {
	query := url.Values{}
	query.Set("page", args.Page())

	return e.tvPage(ctx, "/trending/tv/"+args.pathSegment("time_window", "day"), query)
}

// GetTVShowDetails handles getTVShowDetails: GET /tv/{tvId}
func (e *Executors) GetTVShowDetails(ctx context.Context, args Arguments) (interface{}, error) {
	query := url.Values{}
	args.setIfTruthy(query, "append_to_response")

	var details TVShowDetails
	if err := e.fetch(ctx, "/tv/"+args.pathSegment("tvId", ""), query, &details); err != nil {
		return nil, err
	}
	details.project(e.images)
	return details, nil
}

// People

// SearchPeople handles searchPeople: GET /search/person
func (e *Executors) SearchPeople(ctx context.Context, args Arguments) (interface{}, error) {
	query := url.Values{}
	args.setIfPresent(query, "query")
	query.Set("page", args.Page())

	return fetchPage(ctx, e, "/search/person", query, func(p PersonSummary) PersonSummary {
		return p.withImages(e.images)
	})
}

// GetPersonDetails handles getPersonDetails: GET /person/{personId}
func (e *Executors) GetPersonDetails(ctx context.Context, args Arguments) (interface{}, error) {
	query := url.Values{}
	args.setIfTruthy(query, "append_to_response")

	var details PersonDetails
	if err := e.fetch(ctx, "/person/"+args.pathSegment("personId", ""), query, &details); err != nil {
		return nil, err
	}
	details.project(e.images)
	return details, nil
}

// handlers binds tool names to executor methods
func (e *Executors) handlers() map[string]Executor {
	return map[string]Executor{
		ToolSearchMovies:       ExecutorFunc(e.SearchMovies),
		ToolSearchTVShows:      ExecutorFunc(e.SearchTVShows),
		ToolGetMovieDetails:    ExecutorFunc(e.GetMovieDetails),
		ToolGetTVShowDetails:   ExecutorFunc(e.GetTVShowDetails),
		ToolGetPopularMovies:   ExecutorFunc(e.GetPopularMovies),
		ToolGetPopularTVShows:  ExecutorFunc(e.GetPopularTVShows),
		ToolGetTrendingMovies:  ExecutorFunc(e.GetTrendingMovies),
		ToolGetTrendingTVShows: ExecutorFunc(e.GetTrendingTVShows),
		ToolGetPersonDetails:   ExecutorFunc(e.GetPersonDetails),
		ToolSearchPeople:       ExecutorFunc(e.SearchPeople),
	}
}
