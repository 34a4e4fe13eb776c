// Package tmdb is a minimal client for The Movie Database REST API.
//
// It only knows how to issue authenticated GET requests and hand back the raw
// JSON body; shaping the payload is left to the callers.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the public TMDB v3 API root
const DefaultBaseURL = "https://api.themoviedb.org/3"

// DefaultUserAgent is sent with every upstream request
const DefaultUserAgent = "tmdb-mcp-server/1.0.0"

// Getter issues a single GET against the catalog API and returns the JSON body
type Getter interface {
	Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
}

// Client talks to the TMDB API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for baseURL that authenticates with apiKey
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("tmdb: api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("tmdb: invalid base URL %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		userAgent:  DefaultUserAgent,
		httpClient: http.DefaultClient,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get performs GET baseURL+path with query plus the api_key parameter.
// Non-2xx responses are returned as *APIError with the body kept verbatim.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	params := url.Values{}
	for key, values := range query {
		params[key] = append([]string(nil), values...)
	}
	params.Set("api_key", c.apiKey)

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/") + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.WithFields(logrus.Fields{
		"path":  path,
		"query": query.Encode(),
	}).Debug("tmdb request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL, which includes the api key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON in response from %s", path)
	}

	return json.RawMessage(body), nil
}
