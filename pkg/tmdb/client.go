// Package tmdb provides a client for The Movie Database (TMDB) API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// APIError is a non-2xx response from the TMDB API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: API request failed with status %d: %s", e.StatusCode, e.Message)
}

// ClientOptions configures the TMDB API client.
type ClientOptions struct {
	// BaseURL is the base URL for the TMDB API (default: "https://api.themoviedb.org/3")
	BaseURL string
	// APIKey is the TMDB API key
	APIKey string
	// RetryMax is the maximum number of retries (default: 3)
	RetryMax int
	// Timeout is the HTTP client timeout (default: 15 seconds)
	Timeout time.Duration
}

// Client is the TMDB API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *retryablehttp.Client
}

// NewClient creates a new TMDB API client with default settings.
func NewClient(apiKey string) *Client {
	return NewClientWithOptions(ClientOptions{APIKey: apiKey})
}

// NewClientWithOptions creates a new TMDB API client with custom options.
func NewClientWithOptions(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.themoviedb.org/3"
	}

	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RetryMax == 0 {
		opts.RetryMax = 3
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.HTTPClient.Timeout = opts.Timeout
	retryClient.Logger = nil // Disable logging by default

	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: retryClient,
	}
}

// DiscoverOptions contains options for discovering movies.
type DiscoverOptions struct {
	// GenreIDs restricts results to the given TMDB genre ids (joined with commas).
	GenreIDs []int64
	// SortBy is the sort order (default: "popularity.desc").
	SortBy string
	// Page is the result page (default: 1).
	Page int
	// Language is the result language (default: "en-US").
	Language string
}

// DiscoverMovies calls /discover/movie with the given options.
func (c *Client) DiscoverMovies(ctx context.Context, opts DiscoverOptions) (*DiscoverResponse, error) {
	reqURL := c.baseURL + "/discover/movie"

	params := url.Values{}
	params.Add("api_key", c.apiKey)

	language := opts.Language
	if language == "" {
		language = "en-US"
	}

	params.Add("language", language)

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}

	params.Add("sort_by", sortBy)

	page := opts.Page
	if page == 0 {
		page = 1
	}

	params.Add("page", strconv.Itoa(page))

	if len(opts.GenreIDs) > 0 {
		ids := make([]string, len(opts.GenreIDs))
		for i, id := range opts.GenreIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}

		params.Add("with_genres", strings.Join(ids, ","))
	}

	reqURL += "?" + params.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}

		var parsed errorBody
		if json.Unmarshal(body, &parsed) == nil && parsed.StatusMessage != "" {
			apiErr.Message = parsed.StatusMessage
		}

		return nil, apiErr
	}

	var discover DiscoverResponse
	if err := json.Unmarshal(body, &discover); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &discover, nil
}
