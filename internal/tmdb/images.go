package tmdb

import "strings"

// DefaultImageBaseURL is the TMDB image CDN root
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/"

// Image size buckets
const (
	PosterSize   = "w500"
	ProfileSize  = "w500"
	BackdropSize = "w1280"
)

// Images builds absolute CDN URLs from the relative paths TMDB returns
type Images struct {
	baseURL string
}

// NewImages creates an Images for baseURL, falling back to DefaultImageBaseURL
func NewImages(baseURL string) Images {
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return Images{baseURL: baseURL}
}

// URL returns the absolute URL for path at size, or nil when there is no image
func (i Images) URL(size string, path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	if i.baseURL == "" {
		i = NewImages("")
	}
	u := i.baseURL + size + *path
	return &u
}

// Poster returns the w500 poster URL
func (i Images) Poster(path *string) *string { return i.URL(PosterSize, path) }

// Backdrop returns the w1280 backdrop URL
func (i Images) Backdrop(path *string) *string { return i.URL(BackdropSize, path) }

// Profile returns the w500 profile URL
func (i Images) Profile(path *string) *string { return i.URL(ProfileSize, path) }
