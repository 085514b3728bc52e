// Package service contains the recommendation orchestrator and its job payloads.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/moodstream/hub/internal/catalog"
	"github.com/moodstream/hub/internal/models"
	"github.com/moodstream/hub/internal/recerrors"
	"github.com/moodstream/hub/internal/repository"
	"github.com/moodstream/hub/internal/vectorstore"
)

const (
	// vectorTopK is how many nearest neighbors one vector query requests before
	// partitioning into buckets.
	vectorTopK = 20
	// bucketCap limits each result bucket.
	bucketCap = 15
	// catalogMaxResults is the per-query result cap passed to catalog adapters.
	catalogMaxResults = 5

	defaultVectorTimeout  = 10 * time.Second
	defaultCatalogTimeout = 15 * time.Second
)

// moodSignalStore is the mood signal repository surface the orchestrator needs.
type moodSignalStore interface {
	FindLatestByUser(ctx context.Context, userID string) (*models.MoodSignal, error)
	Create(ctx context.Context, req *models.CreateMoodSignalRequest) (*models.MoodSignal, error)
}

// journalStore is the journals repository surface the orchestrator needs.
type journalStore interface {
	Create(ctx context.Context, req *models.CreateJournalRequest) (*models.Journal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Journal, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Journal, error)
	SetVectorID(ctx context.Context, id uuid.UUID, vectorID string) error
	SetMood(ctx context.Context, id uuid.UUID, mood string) error
}

// recommendationStore is the audit repository surface the orchestrator needs.
type recommendationStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Recommendation, error)
}

// vectorStore is the vector store adapter surface the orchestrator needs.
type vectorStore interface {
	QueryText(ctx context.Context, text string, topK int, filter *vectorstore.Filter) ([]models.VectorMatch, error)
	Upsert(ctx context.Context, id, text string, metadata models.VectorMetadata) error
}

// shortFormSource is the short-form catalog adapter surface.
type shortFormSource interface {
	FetchByMood(ctx context.Context, label, category string, maxResults int) (catalog.ShortFormResult, error)
}

// filmSource is the film catalog adapter surface.
type filmSource interface {
	FetchByMood(ctx context.Context, label, category string, maxResults int) ([]models.Movie, error)
}

// bucketReranker re-scores keyword buckets against a reference text.
type bucketReranker interface {
	RerankVideos(ctx context.Context, refText string, videos []models.Video) ([]models.Video, int)
	RerankMovies(ctx context.Context, refText string, movies []models.Movie) ([]models.Movie, int)
}

// RecommendationService sequences vector retrieval, catalog fallback,
// re-ranking, and background persistence for one user request.
type RecommendationService struct {
	moods     moodSignalStore
	journals  journalStore
	recs      recommendationStore
	store     vectorStore
	shortForm shortFormSource
	film      filmSource
	reranker  bucketReranker
	jobs      JobInserter
	logger    *slog.Logger

	vectorTimeout  time.Duration
	catalogTimeout time.Duration
}

// NewRecommendationService wires the orchestrator. jobs may be nil in tests;
// persistence is then skipped entirely.
func NewRecommendationService(
	moods moodSignalStore,
	journals journalStore,
	recs recommendationStore,
	store vectorStore,
	shortForm shortFormSource,
	film filmSource,
	reranker bucketReranker,
	jobs JobInserter,
	logger *slog.Logger,
) *RecommendationService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecommendationService{
		moods:          moods,
		journals:       journals,
		recs:           recs,
		store:          store,
		shortForm:      shortForm,
		film:           film,
		reranker:       reranker,
		jobs:           jobs,
		logger:         logger,
		vectorTimeout:  defaultVectorTimeout,
		catalogTimeout: defaultCatalogTimeout,
	}
}

// GetRecommendations returns media recommendations for the user's latest mood
// signal. The only caller-visible errors are NoMoodSignalError (no mood history)
// and AllSourcesFailedError (every source failed hard); any other source failure
// degrades to an empty bucket. Idempotent: side effects are best-effort
// caching and audit only.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID string) (*models.RecommendationResult, error) {
	signal, err := s.moods.FindLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &models.RecommendationResult{
		MoodLabel:    signal.Label,
		MoodScore:    signal.Score,
		MoodCategory: signal.Category,
		Videos:       []models.Video{},
		Songs:        []models.Video{},
		Movies:       []models.Movie{},
	}

	// Vector attempt: only when the journal was embedded at creation time. An
	// index error or an empty result both fall back to keyword search; an empty
	// index must not produce an empty user-facing result.
	vectorUsable := false

	if signal.VectorID != nil && signal.SourceText != "" {
		vectorUsable = s.tryVectorSearch(ctx, signal, result)
		if result.SearchMethod == models.SearchMethodVectorSimilarity {
			s.persist(ctx, userID, signal, result)

			return result, nil
		}
	}

	shortFormErr, filmErr := s.keywordSearch(ctx, signal, result)
	result.SearchMethod = models.SearchMethodKeywordOnly

	if !vectorUsable && shortFormErr != nil && filmErr != nil {
		return nil, &recerrors.AllSourcesFailedError{}
	}

	if signal.VectorID != nil && result.TotalCount > 0 {
		s.rerank(ctx, signal.SourceText, result)
	}

	s.persist(ctx, userID, signal, result)

	return result, nil
}

// tryVectorSearch queries the index with the mood source text and fills the
// result buckets on success. Returns whether the index answered at all (even
// with zero matches); the caller uses that to tell "source is up but empty"
// from "source failed".
func (s *RecommendationService) tryVectorSearch(
	ctx context.Context, signal *models.MoodSignal, result *models.RecommendationResult,
) bool {
	vctx, cancel := context.WithTimeout(ctx, s.vectorTimeout)
	defer cancel()

	matches, err := s.store.QueryText(vctx, signal.SourceText, vectorTopK, nil)
	if err != nil {
		s.logger.Warn("vector query failed, falling back to keyword search",
			"user_id", signal.UserID, "error", err)

		return false
	}

	partitionMatches(matches, result)

	if result.TotalCount > 0 {
		result.SearchMethod = models.SearchMethodVectorSimilarity
	}

	return true
}

// partitionMatches splits index matches by metadata source and media type into
// the three buckets, capping each and rounding scores for presentation.
func partitionMatches(matches []models.VectorMatch, result *models.RecommendationResult) {
	for _, m := range matches {
		score := roundScore(m.Score)

		switch {
		case m.Metadata.Source == models.SourceYouTube && m.Metadata.MediaType == models.MediaTypeVideo:
			if len(result.Videos) < bucketCap {
				result.Videos = append(result.Videos, videoFromMatch(m, score))
			}
		case m.Metadata.Source == models.SourceYouTube && m.Metadata.MediaType == models.MediaTypeSong:
			if len(result.Songs) < bucketCap {
				result.Songs = append(result.Songs, videoFromMatch(m, score))
			}
		case m.Metadata.Source == models.SourceTMDB && m.Metadata.MediaType == models.MediaTypeMovie:
			if len(result.Movies) < bucketCap {
				result.Movies = append(result.Movies, movieFromMatch(m, score))
			}
		}
	}

	result.TotalCount = len(result.Videos) + len(result.Songs) + len(result.Movies)
}

func videoFromMatch(m models.VectorMatch, score float64) models.Video {
	return models.Video{
		VideoID:      models.NativeID(m.ID),
		Title:        m.Metadata.Title,
		Description:  m.Metadata.Text,
		Thumbnail:    m.Metadata.Extra["thumbnail"],
		ChannelTitle: m.Metadata.Extra["channel_title"],
		PublishedAt:  m.Metadata.Extra["published_at"],
		Similarity:   &score,
	}
}

func movieFromMatch(m models.VectorMatch, score float64) models.Movie {
	movie := models.Movie{
		MovieID:     models.NativeID(m.ID),
		Title:       m.Metadata.Title,
		Overview:    m.Metadata.Text,
		ReleaseDate: m.Metadata.Extra["release_date"],
		Similarity:  &score,
	}

	if poster, ok := m.Metadata.Extra["poster_url"]; ok && poster != "" {
		movie.PosterURL = &poster
	}

	if raw, ok := m.Metadata.Extra["vote_average"]; ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			movie.VoteAverage = v
		}
	}

	return movie
}

// videoExtra is the inverse of videoFromMatch: the presentation fields a stored
// vector record needs to rebuild a served video.
func videoExtra(v models.Video) map[string]string {
	extra := map[string]string{}

	if v.Thumbnail != "" {
		extra["thumbnail"] = v.Thumbnail
	}

	if v.ChannelTitle != "" {
		extra["channel_title"] = v.ChannelTitle
	}

	if v.PublishedAt != "" {
		extra["published_at"] = v.PublishedAt
	}

	if len(extra) == 0 {
		return nil
	}

	return extra
}

// movieExtra is the inverse of movieFromMatch.
func movieExtra(m models.Movie) map[string]string {
	extra := map[string]string{}

	if m.ReleaseDate != "" {
		extra["release_date"] = m.ReleaseDate
	}

	if m.PosterURL != nil && *m.PosterURL != "" {
		extra["poster_url"] = *m.PosterURL
	}

	if m.VoteAverage != 0 {
		extra["vote_average"] = strconv.FormatFloat(m.VoteAverage, 'f', -1, 64)
	}

	if len(extra) == 0 {
		return nil
	}

	return extra
}

// keywordSearch runs both catalog adapters concurrently. Each adapter's failure
// is absorbed into an empty bucket; the errors are returned only so the caller
// can detect total source failure.
func (s *RecommendationService) keywordSearch(
	ctx context.Context, signal *models.MoodSignal, result *models.RecommendationResult,
) (shortFormErr, filmErr error) {
	category := ""
	if signal.Category != nil {
		category = *signal.Category
	}

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		cctx, cancel := context.WithTimeout(ctx, s.catalogTimeout)
		defer cancel()

		sf, err := s.shortForm.FetchByMood(cctx, signal.Label, category, catalogMaxResults)
		if err != nil {
			shortFormErr = err

			s.logger.Warn("short-form catalog search failed",
				"user_id", signal.UserID, "mood", signal.Label, "error", err)

			return
		}

		result.Videos = sf.Videos
		result.Songs = sf.Songs
	}()

	go func() {
		defer wg.Done()

		cctx, cancel := context.WithTimeout(ctx, s.catalogTimeout)
		defer cancel()

		movies, err := s.film.FetchByMood(cctx, signal.Label, category, catalogMaxResults)
		if err != nil {
			filmErr = err

			s.logger.Warn("film catalog search failed",
				"user_id", signal.UserID, "mood", signal.Label, "error", err)

			return
		}

		result.Movies = movies
	}()

	wg.Wait()

	if result.Videos == nil {
		result.Videos = []models.Video{}
	}

	if result.Songs == nil {
		result.Songs = []models.Video{}
	}

	if result.Movies == nil {
		result.Movies = []models.Movie{}
	}

	result.TotalCount = len(result.Videos) + len(result.Songs) + len(result.Movies)

	return shortFormErr, filmErr
}

// rerank re-scores the keyword buckets against the mood source text. The three
// buckets share no data, so they are scored in parallel; the similarity
// concurrency cap lives in the re-ranker and spans all of them. The method is
// upgraded only when at least one item was actually scored; a fully failed
// re-rank keeps provider order and keyword-only semantics.
func (s *RecommendationService) rerank(ctx context.Context, refText string, result *models.RecommendationResult) {
	var (
		wg sync.WaitGroup

		videosScored, songsScored, moviesScored int
	)

	if len(result.Videos) > 0 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			result.Videos, videosScored = s.reranker.RerankVideos(ctx, refText, result.Videos)
		}()
	}

	if len(result.Songs) > 0 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			result.Songs, songsScored = s.reranker.RerankVideos(ctx, refText, result.Songs)
		}()
	}

	if len(result.Movies) > 0 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			result.Movies, moviesScored = s.reranker.RerankMovies(ctx, refText, result.Movies)
		}()
	}

	wg.Wait()

	if videosScored+songsScored+moviesScored > 0 {
		result.SearchMethod = models.SearchMethodKeywordRerankedVector
	}
}

// persist enqueues fire-and-forget jobs: one idempotent embedding upsert per
// served candidate plus one audit record. Enqueue failures are logged, never
// surfaced, and the response does not wait for the jobs. Detached from the
// caller's cancellation so an impatient client cannot abort persistence.
func (s *RecommendationService) persist(
	ctx context.Context, userID string, signal *models.MoodSignal, result *models.RecommendationResult,
) {
	if s.jobs == nil {
		return
	}

	bgCtx := context.WithoutCancel(ctx)
	opts := &river.InsertOpts{Queue: PersistQueueName}

	enqueue := func(args river.JobArgs) {
		if _, err := s.jobs.Insert(bgCtx, args, opts); err != nil {
			s.logger.Warn("failed to enqueue persistence job",
				"kind", args.Kind(), "user_id", userID, "error", err)
		}
	}

	for _, v := range result.Videos {
		enqueue(CandidateEmbeddingArgs{
			RecordID:  models.RecordID(models.SourceYouTube, models.MediaTypeVideo, v.VideoID),
			Source:    models.SourceYouTube,
			MediaType: models.MediaTypeVideo,
			Title:     v.Title,
			Text:      v.SearchText(),
			Extra:     videoExtra(v),
		})
	}

	for _, v := range result.Songs {
		enqueue(CandidateEmbeddingArgs{
			RecordID:  models.RecordID(models.SourceYouTube, models.MediaTypeSong, v.VideoID),
			Source:    models.SourceYouTube,
			MediaType: models.MediaTypeSong,
			Title:     v.Title,
			Text:      v.SearchText(),
			Extra:     videoExtra(v),
		})
	}

	for _, m := range result.Movies {
		enqueue(CandidateEmbeddingArgs{
			RecordID:  models.RecordID(models.SourceTMDB, models.MediaTypeMovie, m.MovieID),
			Source:    models.SourceTMDB,
			MediaType: models.MediaTypeMovie,
			Title:     m.Title,
			Text:      m.SearchText(),
			Extra:     movieExtra(m),
		})
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("failed to marshal recommendation payload for audit", "user_id", userID, "error", err)

		return
	}

	enqueue(AuditRecordArgs{
		UserID:       userID,
		MoodSignalID: signal.ID,
		Payload:      payload,
	})
}

// roundScore rounds a similarity to 2 decimal places for presentation stability.
func roundScore(s float64) float64 {
	return math.Round(s*100) / 100
}

// CreateJournalEntry persists a journal entry and embeds it into the vector
// index so later recommendations can take the vector path. Embedding failure is
// non-fatal: the entry is still created, just not vector-eligible yet.
func (s *RecommendationService) CreateJournalEntry(ctx context.Context, req *models.CreateJournalRequest) (*models.Journal, error) {
	journal, err := s.journals.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	recordID := models.RecordID(models.SourceJournal, models.MediaTypeJournal, journal.ID.String())
	metadata := models.VectorMetadata{
		Source:    models.SourceJournal,
		MediaType: models.MediaTypeJournal,
		Text:      journal.Content,
		Extra:     map[string]string{"user_id": journal.UserID},
	}

	if err := s.store.Upsert(ctx, recordID, journal.Content, metadata); err != nil {
		s.logger.Warn("journal embedding failed, entry created without vector",
			"journal_id", journal.ID, "error", err)

		return journal, nil
	}

	if err := s.journals.SetVectorID(ctx, journal.ID, recordID); err != nil {
		s.logger.Warn("failed to record journal vector id", "journal_id", journal.ID, "error", err)

		return journal, nil
	}

	journal.VectorID = &recordID

	return journal, nil
}

// CreateMoodSignal ingests an upstream classifier result and denormalizes the
// label onto the journal row. The referenced journal must exist and belong to
// the signal's user; a journal owned by someone else is reported as missing.
func (s *RecommendationService) CreateMoodSignal(ctx context.Context, req *models.CreateMoodSignalRequest) (*models.MoodSignal, error) {
	journal, err := s.journals.GetByID(ctx, req.JournalID)
	if err != nil {
		return nil, err
	}

	if journal.UserID != req.UserID {
		return nil, repository.ErrJournalNotFound
	}

	signal, err := s.moods.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.journals.SetMood(ctx, req.JournalID, req.Label); err != nil {
		s.logger.Warn("failed to denormalize mood onto journal",
			"journal_id", req.JournalID, "error", err)
	}

	return signal, nil
}

// ListJournals returns a user's journal entries, newest first.
func (s *RecommendationService) ListJournals(ctx context.Context, userID string, limit int) ([]models.Journal, error) {
	return s.journals.ListByUser(ctx, userID, limit)
}

// ListRecommendationHistory returns a user's previously served recommendations.
func (s *RecommendationService) ListRecommendationHistory(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	return s.recs.ListByUser(ctx, userID, limit)
}
