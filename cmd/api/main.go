package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"golang.org/x/time/rate"

	"github.com/moodstream/hub/internal/api/handlers"
	"github.com/moodstream/hub/internal/api/middleware"
	"github.com/moodstream/hub/internal/catalog"
	"github.com/moodstream/hub/internal/config"
	"github.com/moodstream/hub/internal/embeddings"
	"github.com/moodstream/hub/internal/observability"
	"github.com/moodstream/hub/internal/repository"
	"github.com/moodstream/hub/internal/rerank"
	"github.com/moodstream/hub/internal/service"
	"github.com/moodstream/hub/internal/vectorstore"
	"github.com/moodstream/hub/internal/workers"
	"github.com/moodstream/hub/pkg/database"
	"github.com/moodstream/hub/pkg/tmdb"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.SetupLogging(cfg.LogLevel)

	if cfg.OpenAIAPIKey == "" {
		slog.Error("OPENAI_API_KEY environment variable is required but not set")
		os.Exit(1)
	}

	// Initialize database connection
	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Embedding provider behind the in-process cache.
	embedder, err := embeddings.NewCachingClient(embeddings.NewOpenAIClient(cfg.OpenAIAPIKey), cfg.EmbeddingCacheSize)
	if err != nil {
		slog.Error("Failed to create embedding cache", "error", err)
		os.Exit(1)
	}

	// Vector store and re-ranker share the same adapter, so re-rank scores live
	// in the same cosine space as index matches.
	store := vectorstore.NewAdapter(vectorstore.NewPgIndex(db), embedder, logger)
	reranker := rerank.NewReranker(store, logger)

	// Catalog adapters. A missing credential leaves the adapter unconfigured;
	// the orchestrator degrades that source to empty results.
	var shortForm *catalog.ShortFormSource

	if cfg.YouTubeAPIKey != "" {
		searcher, err := catalog.NewYouTubeSearcher(ctx, cfg.YouTubeAPIKey, rate.Limit(cfg.YouTubeSearchRatePerSec))
		if err != nil {
			slog.Error("Failed to create YouTube searcher", "error", err)
			os.Exit(1)
		}

		shortForm = catalog.NewShortFormSource(searcher, logger)
	} else {
		slog.Info("Short-form catalog disabled (YOUTUBE_API_KEY not set)")

		shortForm = catalog.NewShortFormSource(nil, logger)
	}

	var film *catalog.FilmSource

	if cfg.TMDBAPIKey != "" {
		film = catalog.NewFilmSource(tmdb.NewClient(cfg.TMDBAPIKey), logger)
	} else {
		slog.Info("Film catalog disabled (TMDB_API_KEY not set)")

		film = catalog.NewFilmSource(nil, logger)
	}

	// Initialize repositories
	journalsRepo := repository.NewJournalsRepository(db)
	moodSignalsRepo := repository.NewMoodSignalsRepository(db)
	recsRepo := repository.NewRecommendationsRepository(db)

	riverClient, err := initRiver(ctx, db, cfg, store, recsRepo)
	if err != nil {
		slog.Error("Failed to initialize River job queue", "error", err)
		os.Exit(1)
	}

	recService := service.NewRecommendationService(
		moodSignalsRepo, journalsRepo, recsRepo,
		store, shortForm, film, reranker, riverClient, logger,
	)

	recsHandler := handlers.NewRecommendationsHandler(recService)
	journalsHandler := handlers.NewJournalsHandler(recService)
	moodSignalsHandler := handlers.NewMoodSignalsHandler(recService)
	healthHandler := handlers.NewHealthHandler()

	// Public endpoints (no authentication required)
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("GET /health", healthHandler.Check)

	// Protected endpoints (API key required)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /v1/users/{user_id}/recommendations", recsHandler.Get)
	protectedMux.HandleFunc("GET /v1/users/{user_id}/recommendations/history", recsHandler.History)
	protectedMux.HandleFunc("GET /v1/users/{user_id}/journals", journalsHandler.List)
	protectedMux.HandleFunc("POST /v1/journals", journalsHandler.Create)
	protectedMux.HandleFunc("POST /v1/mood-signals", moodSignalsHandler.Create)

	var protectedHandler http.Handler = protectedMux
	protectedHandler = middleware.Auth(cfg.APIKey)(protectedHandler)

	mainMux := http.NewServeMux()
	mainMux.Handle("/v1/", protectedHandler)
	mainMux.Handle("/", publicMux) // Catch-all for public routes (/health, etc.)

	var handler http.Handler = mainMux
	handler = middleware.MaxBody(maxBodyBytes)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Stop accepting new HTTP requests
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	// 2. Stop River (waits for in-flight persistence jobs to complete)
	slog.Info("Stopping River job queue...")

	if err := riverClient.Stop(shutdownCtx); err != nil {
		slog.Error("River forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// initRiver initializes the River job queue client and persistence workers.
func initRiver(
	ctx context.Context,
	db *pgxpool.Pool,
	cfg *config.Config,
	store *vectorstore.Adapter,
	recsRepo *repository.RecommendationsRepository,
) (*river.Client[pgx.Tx], error) {
	riverWorkers := river.NewWorkers()
	river.AddWorker(riverWorkers, workers.NewCandidateEmbeddingWorker(store))
	river.AddWorker(riverWorkers, workers.NewAuditRecordWorker(recsRepo))

	riverClient, err := river.NewClient(riverpgxv5.New(db), &river.Config{
		Queues: map[string]river.QueueConfig{
			service.PersistQueueName: {MaxWorkers: cfg.PersistWorkers},
		},
		Workers:     riverWorkers,
		JobTimeout:  60 * time.Second,
		MaxAttempts: cfg.PersistMaxAttempts,
	})
	if err != nil {
		return nil, err
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, err
	}

	return riverClient, nil
}
