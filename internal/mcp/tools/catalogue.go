package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names
const (
	ToolSearchMovies       = "searchMovies"
	ToolSearchTVShows      = "searchTVShows"
	ToolGetMovieDetails    = "getMovieDetails"
	ToolGetTVShowDetails   = "getTVShowDetails"
	ToolGetPopularMovies   = "getPopularMovies"
	ToolGetPopularTVShows  = "getPopularTVShows"
	ToolGetTrendingMovies  = "getTrendingMovies"
	ToolGetTrendingTVShows = "getTrendingTVShows"
	ToolGetPersonDetails   = "getPersonDetails"
	ToolSearchPeople       = "searchPeople"
)

const (
	pageDescription       = "Page number for pagination (default: 1)."
	timeWindowDescription = "Time window for trending (default: day)."
)

// catalogue is built once and never modified
var catalogue = buildCatalogue()

// Catalogue returns the tool descriptors in their published order.
// The returned slice is a copy; the descriptors themselves must be treated as read-only.
func Catalogue() []mcp.Tool {
	out := make([]mcp.Tool, len(catalogue))
	copy(out, catalogue)
	return out
}

// readOnly marks a tool as a side-effect free lookup against an external catalog
func readOnly() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	all := append([]mcp.ToolOption{mcp.WithDescription(description)}, opts...)
	all = append(all, readOnly()...)
	return mcp.NewTool(name, all...)
}

func withPage() mcp.ToolOption {
	return mcp.WithNumber("page", mcp.Description(pageDescription))
}

func withTimeWindow() mcp.ToolOption {
	return mcp.WithString("time_window",
		mcp.Enum("day", "week"),
		mcp.Description(timeWindowDescription),
	)
}

func buildCatalogue() []mcp.Tool {
	return []mcp.Tool{
		newTool(ToolSearchMovies, "Search for movies by title or keywords.",
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The movie title or keywords to search for."),
			),
			withPage(),
			mcp.WithNumber("year",
				mcp.Description("Filter by release year (optional)."),
			),
		),
		newTool(ToolSearchTVShows, "Search for TV shows by title or keywords.",
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The TV show title or keywords to search for."),
			),
			withPage(),
			mcp.WithNumber("first_air_date_year",
				mcp.Description("Filter by first air date year (optional)."),
			),
		),
		newTool(ToolGetMovieDetails, "Get detailed information about a specific movie.",
			mcp.WithNumber("movieId",
				mcp.Required(),
				mcp.Description("The TMDB movie ID."),
			),
			mcp.WithString("append_to_response",
				mcp.Description(`Additional data to include (e.g., "credits,videos,reviews").`),
			),
		),
		newTool(ToolGetTVShowDetails, "Get detailed information about a specific TV show.",
			mcp.WithNumber("tvId",
				mcp.Required(),
				mcp.Description("The TMDB TV show ID."),
			),
			mcp.WithString("append_to_response",
				mcp.Description(`Additional data to include (e.g., "credits,videos,reviews").`),
			),
		),
		newTool(ToolGetPopularMovies, "Get a list of popular movies.",
			withPage(),
			mcp.WithString("region",
				mcp.Description("ISO 3166-1 code for region-specific results (optional)."),
			),
		),
		newTool(ToolGetPopularTVShows, "Get a list of popular TV shows.",
			withPage(),
		),
		newTool(ToolGetTrendingMovies, "Get trending movies for a specific time window.",
			withTimeWindow(),
			withPage(),
		),
		newTool(ToolGetTrendingTVShows, "Get trending TV shows for a specific time window.",
			withTimeWindow(),
			withPage(),
		),
		newTool(ToolGetPersonDetails, "Get detailed information about a person (actor, director, etc.).",
			mcp.WithNumber("personId",
				mcp.Required(),
				mcp.Description("The TMDB person ID."),
			),
			mcp.WithString("append_to_response",
				mcp.Description(`Additional data to include (e.g., "movie_credits,tv_credits").`),
			),
		),
		newTool(ToolSearchPeople, "Search for people (actors, directors, etc.) by name.",
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The person name to search for."),
			),
			withPage(),
		),
	}
}
