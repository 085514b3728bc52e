package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/moodstream/hub/internal/models"
	"github.com/moodstream/hub/internal/recerrors"
	"github.com/moodstream/hub/pkg/tmdb"
)

const (
	filmAdapterName = "film"
	posterURLPrefix = "https://image.tmdb.org/t/p/w500"
)

// MovieDiscoverer runs one discover query against the film catalog backend.
type MovieDiscoverer interface {
	DiscoverMovies(ctx context.Context, opts tmdb.DiscoverOptions) (*tmdb.DiscoverResponse, error)
}

// FilmSource is the film catalog adapter. It maps moods to a fixed genre
// taxonomy and returns popularity-sorted candidates.
type FilmSource struct {
	discoverer MovieDiscoverer
	logger     *slog.Logger
}

// NewFilmSource creates the adapter. A nil discoverer marks the adapter as not
// configured; FetchByMood then fails with AdapterNotConfigured without any
// network call.
func NewFilmSource(discoverer MovieDiscoverer, logger *slog.Logger) *FilmSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &FilmSource{discoverer: discoverer, logger: logger}
}

// FetchByMood returns up to maxResults movie candidates for the mood label.
func (s *FilmSource) FetchByMood(ctx context.Context, label, _ string, maxResults int) ([]models.Movie, error) {
	if s.discoverer == nil {
		return nil, recerrors.NewAdapterError(
			filmAdapterName, recerrors.AdapterNotConfigured, errors.New("no API key configured"))
	}

	resp, err := s.discoverer.DiscoverMovies(ctx, tmdb.DiscoverOptions{
		GenreIDs: genresForMood(label),
		SortBy:   "popularity.desc",
	})
	if err != nil {
		return nil, classifyFilmError(err)
	}

	results := resp.Results
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	movies := make([]models.Movie, 0, len(results))

	for _, r := range results {
		movie := models.Movie{
			MovieID:     formatMovieID(r.ID),
			Title:       r.Title,
			Overview:    r.Overview,
			ReleaseDate: r.ReleaseDate,
			VoteAverage: r.VoteAverage,
			GenreIDs:    r.GenreIDs,
		}

		if r.PosterPath != nil && *r.PosterPath != "" {
			poster := posterURLPrefix + *r.PosterPath
			movie.PosterURL = &poster
		}

		movies = append(movies, movie)
	}

	return movies, nil
}

// formatMovieID renders the provider-native numeric id as the string native id
// used in vector record ids.
func formatMovieID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// classifyFilmError maps backend failures onto the adapter error taxonomy.
func classifyFilmError(err error) error {
	kind := recerrors.AdapterTransient

	var apiErr *tmdb.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			kind = recerrors.AdapterQuotaExceeded
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = recerrors.AdapterForbidden
		}
	}

	return recerrors.NewAdapterError(filmAdapterName, kind, err)
}
