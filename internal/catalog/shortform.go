package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/moodstream/hub/internal/models"
	"github.com/moodstream/hub/internal/recerrors"
)

const (
	shortFormAdapterName = "shortform"
	// queriesPerBucket is how many related queries are issued concurrently per mood and bucket.
	queriesPerBucket = 3
)

// VideoSearcher runs one keyword search against the short-form catalog backend.
type VideoSearcher interface {
	Search(ctx context.Context, query string, maxResults int64) ([]models.Video, error)
}

// YouTubeSearcher implements VideoSearcher on the YouTube Data API.
type YouTubeSearcher struct {
	svc     *youtube.Service
	limiter *rate.Limiter
}

var _ VideoSearcher = (*YouTubeSearcher)(nil)

// NewYouTubeSearcher creates a searcher using the given API key. limit caps
// outbound search calls per second to stay under the API quota; zero disables
// the limiter.
func NewYouTubeSearcher(ctx context.Context, apiKey string, limit rate.Limit) (*YouTubeSearcher, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	var limiter *rate.Limiter
	if limit > 0 {
		limiter = rate.NewLimiter(limit, 1)
	}

	return &YouTubeSearcher{svc: svc, limiter: limiter}, nil
}

// Search runs a relevance-ordered video search and maps the snippets to models.Video.
func (s *YouTubeSearcher) Search(ctx context.Context, query string, maxResults int64) ([]models.Video, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	resp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("relevance").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", query, err)
	}

	videos := make([]models.Video, 0, len(resp.Items))

	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}

		videos = append(videos, models.Video{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			Thumbnail:    bestThumbnail(item.Snippet.Thumbnails),
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}

	return videos, nil
}

// bestThumbnail prefers the high resolution, then medium, then default.
func bestThumbnail(details *youtube.ThumbnailDetails) string {
	if details == nil {
		return ""
	}

	switch {
	case details.High != nil && details.High.Url != "":
		return details.High.Url
	case details.Medium != nil && details.Medium.Url != "":
		return details.Medium.Url
	case details.Default != nil && details.Default.Url != "":
		return details.Default.Url
	}

	return ""
}

// ShortFormResult carries the two buckets the short-form catalog serves.
type ShortFormResult struct {
	Videos []models.Video
	Songs  []models.Video
}

// ShortFormSource is the short-form media catalog adapter. It issues several
// related queries per mood concurrently and merges the batches with
// first-occurrence-wins dedup by native video id. Final order is superseded
// downstream by re-ranking or store ordering.
type ShortFormSource struct {
	searcher VideoSearcher
	logger   *slog.Logger
}

// NewShortFormSource creates the adapter. A nil searcher marks the adapter as
// not configured; FetchByMood then fails with AdapterNotConfigured without any
// network call.
func NewShortFormSource(searcher VideoSearcher, logger *slog.Logger) *ShortFormSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &ShortFormSource{searcher: searcher, logger: logger}
}

// FetchByMood returns video and song candidates for the mood label. Individual
// query failures are tolerated while at least one query in a bucket succeeds;
// when every query fails the classified error of the first failure is returned.
func (s *ShortFormSource) FetchByMood(ctx context.Context, label, _ string, maxResults int) (ShortFormResult, error) {
	if s.searcher == nil {
		return ShortFormResult{}, recerrors.NewAdapterError(
			shortFormAdapterName, recerrors.AdapterNotConfigured, errors.New("no API key configured"))
	}

	queries := queriesForMood(label)

	var (
		result   ShortFormResult
		videoErr error
		songErr  error
		wg       sync.WaitGroup
	)

	// The two buckets are independent; fetch them in parallel too.
	wg.Add(2)

	go func() {
		defer wg.Done()

		result.Videos, videoErr = s.fetchBucket(ctx, queries.Videos, maxResults)
	}()

	go func() {
		defer wg.Done()

		result.Songs, songErr = s.fetchBucket(ctx, queries.Songs, maxResults)
	}()

	wg.Wait()

	if videoErr != nil && songErr != nil {
		return ShortFormResult{}, videoErr
	}

	if videoErr != nil {
		s.logger.Warn("short-form video bucket failed, serving songs only", "mood", label, "error", videoErr)
	}

	if songErr != nil {
		s.logger.Warn("short-form song bucket failed, serving videos only", "mood", label, "error", songErr)
	}

	return result, nil
}

// fetchBucket issues up to queriesPerBucket queries concurrently and merges the
// batches. Merge order follows query order, not completion order, so the output
// is deterministic for a given backend response set.
func (s *ShortFormSource) fetchBucket(ctx context.Context, queries []string, maxResults int) ([]models.Video, error) {
	if len(queries) > queriesPerBucket {
		queries = queries[:queriesPerBucket]
	}

	batches := make([][]models.Video, len(queries))
	g, gctx := errgroup.WithContext(ctx)

	var (
		mu       sync.Mutex
		firstErr error
		failures int
	)

	for i, query := range queries {
		g.Go(func() error {
			videos, err := s.searcher.Search(gctx, query, int64(maxResults))
			if err != nil {
				mu.Lock()
				failures++
				if firstErr == nil {
					firstErr = classifyShortFormError(err)
				}
				mu.Unlock()

				s.logger.Warn("short-form query failed", "query", query, "error", err)

				return nil // partial failure tolerated; merge what succeeded
			}

			batches[i] = videos

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, classifyShortFormError(err)
	}

	if failures == len(queries) {
		return nil, firstErr
	}

	return mergeDedupe(batches), nil
}

// mergeDedupe flattens batches keeping the first occurrence of each video id.
func mergeDedupe(batches [][]models.Video) []models.Video {
	seen := make(map[string]struct{})

	var merged []models.Video

	for _, batch := range batches {
		for _, v := range batch {
			if _, ok := seen[v.VideoID]; ok {
				continue
			}

			seen[v.VideoID] = struct{}{}
			merged = append(merged, v)
		}
	}

	return merged
}

// classifyShortFormError maps backend failures onto the adapter error taxonomy.
func classifyShortFormError(err error) error {
	var adapterErr *recerrors.AdapterError
	if errors.As(err, &adapterErr) {
		return err
	}

	kind := recerrors.AdapterTransient

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusTooManyRequests:
			kind = recerrors.AdapterQuotaExceeded
		case http.StatusForbidden:
			kind = recerrors.AdapterForbidden

			for _, item := range gerr.Errors {
				if strings.Contains(item.Reason, "quota") {
					kind = recerrors.AdapterQuotaExceeded

					break
				}
			}
		case http.StatusUnauthorized:
			kind = recerrors.AdapterForbidden
		}
	}

	return recerrors.NewAdapterError(shortFormAdapterName, kind, err)
}
