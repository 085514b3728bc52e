package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodstream/hub/internal/catalog"
	"github.com/moodstream/hub/internal/models"
	"github.com/moodstream/hub/internal/recerrors"
	"github.com/moodstream/hub/internal/repository"
	"github.com/moodstream/hub/internal/vectorstore"
)

type fakeMoods struct {
	signal *models.MoodSignal
	err    error
}

func (f *fakeMoods) FindLatestByUser(_ context.Context, _ string) (*models.MoodSignal, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.signal, nil
}

func (f *fakeMoods) Create(_ context.Context, req *models.CreateMoodSignalRequest) (*models.MoodSignal, error) {
	return &models.MoodSignal{
		ID: uuid.New(), UserID: req.UserID, JournalID: req.JournalID,
		Label: req.Label, Score: req.Score, Category: req.Category,
	}, nil
}

type fakeJournals struct {
	created     *models.Journal
	byID        map[uuid.UUID]*models.Journal
	listed      []models.Journal
	vectorIDs   map[uuid.UUID]string
	moods       map[uuid.UUID]string
	setMoodErr  error
	setVecIDErr error
}

func (f *fakeJournals) Create(_ context.Context, req *models.CreateJournalRequest) (*models.Journal, error) {
	f.created = &models.Journal{ID: uuid.New(), UserID: req.UserID, Content: req.Content}

	if f.byID == nil {
		f.byID = map[uuid.UUID]*models.Journal{}
	}

	f.byID[f.created.ID] = f.created

	return f.created, nil
}

func (f *fakeJournals) GetByID(_ context.Context, id uuid.UUID) (*models.Journal, error) {
	if journal, ok := f.byID[id]; ok {
		return journal, nil
	}

	return nil, repository.ErrJournalNotFound
}

func (f *fakeJournals) ListByUser(_ context.Context, _ string, _ int) ([]models.Journal, error) {
	return f.listed, nil
}

func (f *fakeJournals) SetVectorID(_ context.Context, id uuid.UUID, vectorID string) error {
	if f.setVecIDErr != nil {
		return f.setVecIDErr
	}

	if f.vectorIDs == nil {
		f.vectorIDs = map[uuid.UUID]string{}
	}

	f.vectorIDs[id] = vectorID

	return nil
}

func (f *fakeJournals) SetMood(_ context.Context, id uuid.UUID, mood string) error {
	if f.setMoodErr != nil {
		return f.setMoodErr
	}

	if f.moods == nil {
		f.moods = map[uuid.UUID]string{}
	}

	f.moods[id] = mood

	return nil
}

type fakeRecs struct {
	items []models.Recommendation
}

func (f *fakeRecs) ListByUser(_ context.Context, _ string, _ int) ([]models.Recommendation, error) {
	return f.items, nil
}

type fakeStore struct {
	mu       sync.Mutex
	matches  []models.VectorMatch
	queryErr error
	queried  []string
	upserts  []string
}

func (f *fakeStore) QueryText(_ context.Context, text string, _ int, _ *vectorstore.Filter) ([]models.VectorMatch, error) {
	f.mu.Lock()
	f.queried = append(f.queried, text)
	f.mu.Unlock()

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return f.matches, nil
}

func (f *fakeStore) Upsert(_ context.Context, id, _ string, _ models.VectorMetadata) error {
	f.mu.Lock()
	f.upserts = append(f.upserts, id)
	f.mu.Unlock()

	return nil
}

type fakeShortForm struct {
	result catalog.ShortFormResult
	err    error
	called bool
}

func (f *fakeShortForm) FetchByMood(_ context.Context, _, _ string, _ int) (catalog.ShortFormResult, error) {
	f.called = true
	if f.err != nil {
		return catalog.ShortFormResult{}, f.err
	}

	return f.result, nil
}

type fakeFilm struct {
	movies []models.Movie
	err    error
	called bool
}

func (f *fakeFilm) FetchByMood(_ context.Context, _, _ string, _ int) ([]models.Movie, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}

	return f.movies, nil
}

// fakeReranker reverses each bucket so tests can observe whether re-ranking ran.
type fakeReranker struct {
	mu       sync.Mutex
	refTexts []string
	scoreAll bool
}

func (f *fakeReranker) RerankVideos(_ context.Context, refText string, videos []models.Video) ([]models.Video, int) {
	f.mu.Lock()
	f.refTexts = append(f.refTexts, refText)
	f.mu.Unlock()

	out := make([]models.Video, len(videos))
	for i, v := range videos {
		out[len(videos)-1-i] = v
	}

	if f.scoreAll {
		return out, len(videos)
	}

	return videos, 0
}

func (f *fakeReranker) RerankMovies(_ context.Context, refText string, movies []models.Movie) ([]models.Movie, int) {
	f.mu.Lock()
	f.refTexts = append(f.refTexts, refText)
	f.mu.Unlock()

	if f.scoreAll {
		return movies, len(movies)
	}

	return movies, 0
}

type fakeInserter struct {
	mu       sync.Mutex
	inserted []river.JobArgs
	ctxErrs  []error
}

func (f *fakeInserter) Insert(ctx context.Context, args river.JobArgs, _ *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inserted = append(f.inserted, args)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())

	return &rivertype.JobInsertResult{}, nil
}

func vectorID(id string) *string { return &id }

func signalWithVector() *models.MoodSignal {
	return &models.MoodSignal{
		ID: uuid.New(), UserID: "u1", Label: "happy",
		SourceText: "today was a wonderful day",
		VectorID:   vectorID("journal:journal:abc"),
	}
}

func signalWithoutVector() *models.MoodSignal {
	return &models.MoodSignal{ID: uuid.New(), UserID: "u1", Label: "sad", SourceText: "rough week"}
}

func TestGetRecommendations_NoMoodSignal(t *testing.T) {
	svc := NewRecommendationService(
		&fakeMoods{err: recerrors.NewNoMoodSignalError("u1")},
		&fakeJournals{}, &fakeRecs{}, &fakeStore{},
		&fakeShortForm{}, &fakeFilm{}, &fakeReranker{}, nil, nil,
	)

	result, err := svc.GetRecommendations(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, recerrors.ErrNoMoodSignal)
	assert.Nil(t, result, "no partial result on missing mood history")
}

func TestGetRecommendations_VectorSimilarity(t *testing.T) {
	store := &fakeStore{matches: []models.VectorMatch{
		{ID: "youtube:video:v1", Score: 0.91234, Metadata: models.VectorMetadata{
			Source: models.SourceYouTube, MediaType: models.MediaTypeVideo, Title: "Video One"}},
		{ID: "youtube:song:s1", Score: 0.88, Metadata: models.VectorMetadata{
			Source: models.SourceYouTube, MediaType: models.MediaTypeSong, Title: "Song One"}},
		{ID: "tmdb:movie:603", Score: 0.77, Metadata: models.VectorMetadata{
			Source: models.SourceTMDB, MediaType: models.MediaTypeMovie, Title: "The Matrix"}},
	}}
	shortForm := &fakeShortForm{}
	film := &fakeFilm{}
	jobs := &fakeInserter{}

	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithVector()},
		&fakeJournals{}, &fakeRecs{}, store, shortForm, film, &fakeReranker{}, jobs, nil,
	)

	result, err := svc.GetRecommendations(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.SearchMethodVectorSimilarity, result.SearchMethod)
	assert.Equal(t, 3, result.TotalCount)
	assert.False(t, shortForm.called, "catalog search is skipped when the index answers")
	assert.False(t, film.called)

	require.Len(t, result.Videos, 1)
	assert.Equal(t, "v1", result.Videos[0].VideoID)
	require.NotNil(t, result.Videos[0].Similarity)
	assert.Equal(t, 0.91, *result.Videos[0].Similarity, "similarity is rounded to 2 decimal places")

	require.Len(t, result.Movies, 1)
	assert.Equal(t, "603", result.Movies[0].MovieID)

	// One embedding job per served candidate plus one audit record.
	assert.Len(t, jobs.inserted, 4)
}

func TestGetRecommendations_BucketCap(t *testing.T) {
	var matches []models.VectorMatch
	for range bucketCap + 5 {
		matches = append(matches, models.VectorMatch{
			ID: "youtube:video:" + uuid.NewString(), Score: 0.5,
			Metadata: models.VectorMetadata{Source: models.SourceYouTube, MediaType: models.MediaTypeVideo},
		})
	}

	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithVector()},
		&fakeJournals{}, &fakeRecs{}, &fakeStore{matches: matches},
		&fakeShortForm{}, &fakeFilm{}, &fakeReranker{}, nil, nil,
	)

	result, err := svc.GetRecommendations(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, result.Videos, bucketCap)
}

func TestGetRecommendations_FallbackOnEmptyVectorResult(t *testing.T) {
	shortForm := &fakeShortForm{result: catalog.ShortFormResult{
		Videos: []models.Video{{VideoID: "v1", Title: "one"}},
	}}
	film := &fakeFilm{movies: []models.Movie{{MovieID: "603", Title: "The Matrix"}}}
	reranker := &fakeReranker{scoreAll: true}

	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithVector()},
		&fakeJournals{}, &fakeRecs{}, &fakeStore{}, shortForm, film, reranker, nil, nil,
	)

	result, err := svc.GetRecommendations(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotEqual(t, models.SearchMethodVectorSimilarity, result.SearchMethod,
		"an under-populated index must fall back to catalog search")
	assert.Equal(t, models.SearchMethodKeywordRerankedVector, result.SearchMethod)
	assert.True(t, shortForm.called)
	assert.True(t, film.called)
}

func TestGetRecommendations_RerankUsesMoodSourceText(t *testing.T) {
	reranker := &fakeReranker{scoreAll: true}
	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithVector()},
		&fakeJournals{}, &fakeRecs{}, &fakeStore{},
		&fakeShortForm{result: catalog.ShortFormResult{Videos: []models.Video{{VideoID: "v1"}}}},
		&fakeFilm{}, reranker, nil, nil,
	)

	_, err := svc.GetRecommendations(context.Background(), "u1")
	require.NoError(t, err)

	require.NotEmpty(t, reranker.refTexts)
	for _, ref := range reranker.refTexts {
		assert.Equal(t, "today was a wonderful day", ref)
	}
}

func TestGetRecommendations_NoRerankWithoutVectorID(t *testing.T) {
	reranker := &fakeReranker{scoreAll: true}
	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithoutVector()},
		&fakeJournals{}, &fakeRecs{}, &fakeStore{},
		&fakeShortForm{result: catalog.ShortFormResult{Videos: []models.Video{{VideoID: "v1"}}}},
		&fakeFilm{}, reranker, nil, nil,
	)

	result, err := svc.GetRecommendations(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.SearchMethodKeywordOnly, result.SearchMethod)
	assert.Empty(t, reranker.refTexts)
}

func TestGetRecommendations_GracefulCatalogDegradation(t *testing.T) {
	shortForm := &fakeShortForm{err: recerrors.NewAdapterError(
		"shortform", recerrors.AdapterQuotaExceeded, errors.New("quota exceeded"))}
	film := &fakeFilm{movies: []models.Movie{{MovieID: "603", Title: "The Matrix"}}}

	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithoutVector()},
		&fakeJournals{}, &fakeRecs{}, &fakeStore{}, shortForm, film, &fakeReranker{}, nil, nil,
	)

	result, err := svc.GetRecommendations(context.Background(), "u1")
	require.NoError(t, err, "one adapter failing never aborts the pipeline")
	assert.Empty(t, result.Videos)
	assert.Empty(t, result.Songs)
	require.Len(t, result.Movies, 1)
	assert.Equal(t, 1, result.TotalCount)
}

func TestGetRecommendations_AllSourcesFailed(t *testing.T) {
	adapterErr := recerrors.NewAdapterError("shortform", recerrors.AdapterTransient, errors.New("boom"))

	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithVector()},
		&fakeJournals{}, &fakeRecs{},
		&fakeStore{queryErr: errors.New("index unavailable")},
		&fakeShortForm{err: adapterErr},
		&fakeFilm{err: recerrors.NewAdapterError("film", recerrors.AdapterTransient, errors.New("boom"))},
		&fakeReranker{}, nil, nil,
	)

	result, err := svc.GetRecommendations(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, recerrors.ErrAllSourcesFailed)
	assert.Nil(t, result)
}

func TestGetRecommendations_EmptyIndexAnsweredIsNotAFailure(t *testing.T) {
	adapterErr := recerrors.NewAdapterError("shortform", recerrors.AdapterTransient, errors.New("boom"))

	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithVector()},
		&fakeJournals{}, &fakeRecs{},
		&fakeStore{}, // index answers with zero matches
		&fakeShortForm{err: adapterErr},
		&fakeFilm{err: recerrors.NewAdapterError("film", recerrors.AdapterTransient, errors.New("boom"))},
		&fakeReranker{}, nil, nil,
	)

	result, err := svc.GetRecommendations(context.Background(), "u1")
	require.NoError(t, err, "a responsive but empty index means zero results, not total failure")
	assert.Equal(t, 0, result.TotalCount)
	assert.Equal(t, models.SearchMethodKeywordOnly, result.SearchMethod)
}

func TestGetRecommendations_PersistEnqueuesCandidateAndAuditJobs(t *testing.T) {
	jobs := &fakeInserter{}
	shortForm := &fakeShortForm{result: catalog.ShortFormResult{
		Videos: []models.Video{{VideoID: "v1", Title: "one"}},
		Songs:  []models.Video{{VideoID: "s1", Title: "two"}},
	}}
	film := &fakeFilm{movies: []models.Movie{{MovieID: "603", Title: "The Matrix"}}}

	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithoutVector()},
		&fakeJournals{}, &fakeRecs{}, &fakeStore{}, shortForm, film, &fakeReranker{}, jobs, nil,
	)

	_, err := svc.GetRecommendations(context.Background(), "u1")
	require.NoError(t, err)

	var candidateIDs []string

	auditCount := 0

	for _, args := range jobs.inserted {
		switch a := args.(type) {
		case CandidateEmbeddingArgs:
			candidateIDs = append(candidateIDs, a.RecordID)
		case AuditRecordArgs:
			auditCount++
		}
	}

	assert.ElementsMatch(t, []string{"youtube:video:v1", "youtube:song:s1", "tmdb:movie:603"}, candidateIDs)
	assert.Equal(t, 1, auditCount)
}

func TestGetRecommendations_PersistCarriesPresentationFields(t *testing.T) {
	jobs := &fakeInserter{}
	poster := "https://image.tmdb.org/t/p/w500/matrix.jpg"
	shortForm := &fakeShortForm{result: catalog.ShortFormResult{
		Videos: []models.Video{{
			VideoID: "v1", Title: "one", Description: "lofi mix",
			Thumbnail:    "https://i.ytimg.com/vi/v1/hq.jpg",
			ChannelTitle: "Lofi Beats",
			PublishedAt:  "2026-08-01T00:00:00Z",
		}},
	}}
	film := &fakeFilm{movies: []models.Movie{{
		MovieID: "603", Title: "The Matrix", Overview: "A hacker learns the truth.",
		ReleaseDate: "1999-03-31", VoteAverage: 8.2, PosterURL: &poster,
	}}}

	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithoutVector()},
		&fakeJournals{}, &fakeRecs{}, &fakeStore{}, shortForm, film, &fakeReranker{}, jobs, nil,
	)

	_, err := svc.GetRecommendations(context.Background(), "u1")
	require.NoError(t, err)

	byID := map[string]CandidateEmbeddingArgs{}

	for _, args := range jobs.inserted {
		if a, ok := args.(CandidateEmbeddingArgs); ok {
			byID[a.RecordID] = a
		}
	}

	// Everything a later vector hit needs to render the item must ride along
	// with the embedding job; nothing else ever writes these records.
	video := byID["youtube:video:v1"]
	assert.Equal(t, "https://i.ytimg.com/vi/v1/hq.jpg", video.Extra["thumbnail"])
	assert.Equal(t, "Lofi Beats", video.Extra["channel_title"])
	assert.Equal(t, "2026-08-01T00:00:00Z", video.Extra["published_at"])

	movie := byID["tmdb:movie:603"]
	assert.Equal(t, "1999-03-31", movie.Extra["release_date"])
	assert.Equal(t, poster, movie.Extra["poster_url"])
	assert.Equal(t, "8.2", movie.Extra["vote_average"])
}

func TestGetRecommendations_PersistSurvivesCallerCancellation(t *testing.T) {
	jobs := &fakeInserter{}
	shortForm := &fakeShortForm{result: catalog.ShortFormResult{
		Videos: []models.Video{{VideoID: "v1", Title: "one"}},
	}}
	film := &fakeFilm{movies: []models.Movie{{MovieID: "603", Title: "The Matrix"}}}

	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithoutVector()},
		&fakeJournals{}, &fakeRecs{}, &fakeStore{}, shortForm, film, &fakeReranker{}, jobs, nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GetRecommendations(ctx, "u1")
	require.NoError(t, err)

	require.NotEmpty(t, jobs.inserted)
	for _, ctxErr := range jobs.ctxErrs {
		assert.NoError(t, ctxErr, "an impatient client must not abort persistence")
	}
}

// blockingReranker releases only after every populated bucket has checked in,
// so a caller that re-ranks the buckets one at a time never completes.
type blockingReranker struct {
	entered *sync.WaitGroup
	release chan struct{}
}

func (b *blockingReranker) RerankVideos(_ context.Context, _ string, videos []models.Video) ([]models.Video, int) {
	b.entered.Done()
	<-b.release

	return videos, len(videos)
}

func (b *blockingReranker) RerankMovies(_ context.Context, _ string, movies []models.Movie) ([]models.Movie, int) {
	b.entered.Done()
	<-b.release

	return movies, len(movies)
}

func TestGetRecommendations_RerankBucketsRunConcurrently(t *testing.T) {
	var entered sync.WaitGroup

	entered.Add(3)

	reranker := &blockingReranker{entered: &entered, release: make(chan struct{})}

	svc := NewRecommendationService(
		&fakeMoods{signal: signalWithVector()},
		&fakeJournals{}, &fakeRecs{}, &fakeStore{},
		&fakeShortForm{result: catalog.ShortFormResult{
			Videos: []models.Video{{VideoID: "v1", Title: "one"}},
			Songs:  []models.Video{{VideoID: "s1", Title: "two"}},
		}},
		&fakeFilm{movies: []models.Movie{{MovieID: "603", Title: "The Matrix"}}},
		reranker, nil, nil,
	)

	done := make(chan struct{})

	go func() {
		_, _ = svc.GetRecommendations(context.Background(), "u1")
		close(done)
	}()

	allIn := make(chan struct{})

	go func() {
		entered.Wait()
		close(allIn)
	}()

	select {
	case <-allIn:
	case <-time.After(2 * time.Second):
		t.Fatal("buckets were re-ranked one after another instead of in parallel")
	}

	close(reranker.release)
	<-done
}

func TestCreateMoodSignal_DenormalizesMoodOntoJournal(t *testing.T) {
	journals := &fakeJournals{}
	svc := NewRecommendationService(
		&fakeMoods{}, journals, &fakeRecs{}, &fakeStore{},
		&fakeShortForm{}, &fakeFilm{}, &fakeReranker{}, nil, nil,
	)

	journal, err := svc.CreateJournalEntry(context.Background(), &models.CreateJournalRequest{
		UserID: "u1", Content: "what a day",
	})
	require.NoError(t, err)

	signal, err := svc.CreateMoodSignal(context.Background(), &models.CreateMoodSignalRequest{
		UserID: "u1", JournalID: journal.ID, Label: "happy",
	})
	require.NoError(t, err)
	assert.Equal(t, "happy", signal.Label)
	assert.Equal(t, "happy", journals.moods[journal.ID])
}

func TestCreateMoodSignal_RejectsUnknownJournal(t *testing.T) {
	svc := NewRecommendationService(
		&fakeMoods{}, &fakeJournals{}, &fakeRecs{}, &fakeStore{},
		&fakeShortForm{}, &fakeFilm{}, &fakeReranker{}, nil, nil,
	)

	_, err := svc.CreateMoodSignal(context.Background(), &models.CreateMoodSignalRequest{
		UserID: "u1", JournalID: uuid.New(), Label: "happy",
	})
	assert.ErrorIs(t, err, repository.ErrJournalNotFound)
}

func TestCreateMoodSignal_RejectsAnotherUsersJournal(t *testing.T) {
	journals := &fakeJournals{}
	svc := NewRecommendationService(
		&fakeMoods{}, journals, &fakeRecs{}, &fakeStore{},
		&fakeShortForm{}, &fakeFilm{}, &fakeReranker{}, nil, nil,
	)

	journal, err := svc.CreateJournalEntry(context.Background(), &models.CreateJournalRequest{
		UserID: "u2", Content: "someone else's day",
	})
	require.NoError(t, err)

	_, err = svc.CreateMoodSignal(context.Background(), &models.CreateMoodSignalRequest{
		UserID: "u1", JournalID: journal.ID, Label: "happy",
	})
	assert.ErrorIs(t, err, repository.ErrJournalNotFound,
		"ownership failures look identical to missing journals")
	assert.Empty(t, journals.moods)
}

func TestListJournals_PassesThrough(t *testing.T) {
	journals := &fakeJournals{listed: []models.Journal{
		{ID: uuid.New(), UserID: "u1", Content: "newest"},
		{ID: uuid.New(), UserID: "u1", Content: "older"},
	}}
	svc := NewRecommendationService(
		&fakeMoods{}, journals, &fakeRecs{}, &fakeStore{},
		&fakeShortForm{}, &fakeFilm{}, &fakeReranker{}, nil, nil,
	)

	got, err := svc.ListJournals(context.Background(), "u1", 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newest", got[0].Content)
}

func TestCreateJournalEntry_EmbedsAndSetsVectorID(t *testing.T) {
	journals := &fakeJournals{}
	store := &fakeStore{}

	svc := NewRecommendationService(
		&fakeMoods{}, journals, &fakeRecs{}, store,
		&fakeShortForm{}, &fakeFilm{}, &fakeReranker{}, nil, nil,
	)

	journal, err := svc.CreateJournalEntry(context.Background(), &models.CreateJournalRequest{
		UserID: "u1", Content: "what a day",
	})
	require.NoError(t, err)
	require.NotNil(t, journal.VectorID)

	wantID := models.RecordID(models.SourceJournal, models.MediaTypeJournal, journal.ID.String())
	assert.Equal(t, wantID, *journal.VectorID)
	assert.Equal(t, []string{wantID}, store.upserts)
	assert.Equal(t, wantID, journals.vectorIDs[journal.ID])
}

func TestCreateJournalEntry_EmbeddingFailureIsNonFatal(t *testing.T) {
	journals := &fakeJournals{setVecIDErr: errors.New("db down")}

	svc := NewRecommendationService(
		&fakeMoods{}, journals, &fakeRecs{}, &fakeStore{},
		&fakeShortForm{}, &fakeFilm{}, &fakeReranker{}, nil, nil,
	)

	journal, err := svc.CreateJournalEntry(context.Background(), &models.CreateJournalRequest{
		UserID: "u1", Content: "what a day",
	})
	require.NoError(t, err, "the entry is still created when vector bookkeeping fails")
	assert.Nil(t, journal.VectorID)
}
