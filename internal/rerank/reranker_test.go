package rerank

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodstream/hub/internal/models"
)

type fakeScorer struct {
	mu       sync.Mutex
	refTexts []string
	scores   map[string]float64
	errs     map[string]error
}

func (f *fakeScorer) Similarity(_ context.Context, refText, itemText string) (float64, error) {
	f.mu.Lock()
	f.refTexts = append(f.refTexts, refText)
	f.mu.Unlock()

	if err, ok := f.errs[itemText]; ok {
		return 0, err
	}

	return f.scores[itemText], nil
}

func scoredVideo(id, title string) models.Video {
	return models.Video{VideoID: id, Title: title}
}

func TestReranker_SortsDescending(t *testing.T) {
	scorer := &fakeScorer{scores: map[string]float64{
		"low":  0.3,
		"high": 0.9,
		"mid":  0.6,
	}}
	r := NewReranker(scorer, nil)

	videos, scored := r.RerankVideos(context.Background(), "I feel great today", []models.Video{
		scoredVideo("a", "low"),
		scoredVideo("b", "high"),
		scoredVideo("c", "mid"),
	})

	assert.Equal(t, 3, scored)
	require.Len(t, videos, 3)
	assert.Equal(t, "b", videos[0].VideoID)
	assert.Equal(t, "c", videos[1].VideoID)
	assert.Equal(t, "a", videos[2].VideoID)

	require.NotNil(t, videos[0].Similarity)
	assert.InDelta(t, 0.9, *videos[0].Similarity, 1e-9)
}

func TestReranker_ReferenceTextIsAlwaysTheQuery(t *testing.T) {
	scorer := &fakeScorer{scores: map[string]float64{}}
	r := NewReranker(scorer, nil)

	r.RerankVideos(context.Background(), "journal entry text", []models.Video{
		scoredVideo("a", "one"),
		scoredVideo("b", "two"),
	})

	require.Len(t, scorer.refTexts, 2)
	for _, ref := range scorer.refTexts {
		assert.Equal(t, "journal entry text", ref, "candidate text must never become the query side")
	}
}

func TestReranker_FailedItemDegradesToZero(t *testing.T) {
	scorer := &fakeScorer{
		scores: map[string]float64{"good": 0.8},
		errs:   map[string]error{"bad": errors.New("embedding provider down")},
	}
	r := NewReranker(scorer, nil)

	videos, scored := r.RerankVideos(context.Background(), "ref", []models.Video{
		scoredVideo("bad", "bad"),
		scoredVideo("good", "good"),
	})

	assert.Equal(t, 1, scored)
	require.Len(t, videos, 2)
	assert.Equal(t, "good", videos[0].VideoID)
	require.NotNil(t, videos[1].Similarity)
	assert.Zero(t, *videos[1].Similarity)
}

func TestReranker_AllItemsFailed(t *testing.T) {
	providerDown := errors.New("embedding provider down")
	scorer := &fakeScorer{errs: map[string]error{"one": providerDown, "two": providerDown}}
	r := NewReranker(scorer, nil)

	videos, scored := r.RerankVideos(context.Background(), "ref", []models.Video{
		scoredVideo("a", "one"),
		scoredVideo("b", "two"),
	})

	assert.Zero(t, scored, "callers treat a fully failed bucket as not re-ranked")
	require.Len(t, videos, 2)
	// Stable sort keeps the original order when every score is 0.
	assert.Equal(t, "a", videos[0].VideoID)
	assert.Equal(t, "b", videos[1].VideoID)
}

// countingScorer tracks the peak number of in-flight Similarity calls.
type countingScorer struct {
	mu       sync.Mutex
	inFlight int
	peak     int
}

func (c *countingScorer) Similarity(_ context.Context, _, _ string) (float64, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.peak {
		c.peak = c.inFlight
	}
	c.mu.Unlock()

	time.Sleep(time.Millisecond)

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()

	return 0.5, nil
}

func TestReranker_ConcurrencyCapSpansBuckets(t *testing.T) {
	scorer := &countingScorer{}
	r := NewReranker(scorer, nil)

	bucket := func(prefix string) []models.Video {
		videos := make([]models.Video, 8)
		for i := range videos {
			videos[i] = scoredVideo(prefix, prefix)
		}

		return videos
	}

	var wg sync.WaitGroup

	for _, prefix := range []string{"a", "b", "c"} {
		wg.Add(1)

		go func() {
			defer wg.Done()

			r.RerankVideos(context.Background(), "ref", bucket(prefix))
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, scorer.peak, defaultMaxInFlight,
		"buckets scored in parallel must share one in-flight cap, not multiply it")
}

func TestReranker_Movies(t *testing.T) {
	scorer := &fakeScorer{scores: map[string]float64{
		"First. A story.":  0.2,
		"Second. Another.": 0.7,
	}}
	r := NewReranker(scorer, nil)

	movies, scored := r.RerankMovies(context.Background(), "ref", []models.Movie{
		{MovieID: "1", Title: "First", Overview: "A story."},
		{MovieID: "2", Title: "Second", Overview: "Another."},
	})

	assert.Equal(t, 2, scored)
	require.Len(t, movies, 2)
	assert.Equal(t, "2", movies[0].MovieID)
}
