package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/unitq/unitq-backend/internal/config"
	"github.com/unitq/unitq-backend/internal/database"
	"github.com/unitq/unitq-backend/internal/handler"
	"github.com/unitq/unitq-backend/internal/logger"
	"github.com/unitq/unitq-backend/internal/repository"
	"github.com/unitq/unitq-backend/internal/router"
	"github.com/unitq/unitq-backend/internal/service"
	"github.com/unitq/unitq-backend/internal/validator"
	"github.com/unitq/unitq-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting UnitQ Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	unitRepo := repository.NewUnitRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	mapRepo := repository.NewSessionMapRepository(pool)
	segmentRepo := repository.NewSegmentRepository(pool)
	wrongRepo := repository.NewWrongAnswerRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	unitService := service.NewUnitService(unitRepo, log)
	questionService := service.NewQuestionService(questionRepo, answerRepo, rdb, cfg.QuestionCacheTTL, log)
	sessionService := service.NewSessionService(pool, sessionRepo, mapRepo, questionService, unitRepo, segmentRepo, log)
	submissionService := service.NewSubmissionService(sessionRepo, mapRepo, wrongRepo, questionService, log)
	segmentService := service.NewSegmentService(sessionRepo, segmentRepo, log)
	wrongService := service.NewWrongAnswerService(wrongRepo, questionService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Unit:    handler.NewUnitHandler(unitService),
		Session: handler.NewSessionHandler(sessionService, submissionService, segmentService),
		Wrong:   handler.NewWrongAnswerHandler(wrongService),
		WS:      handler.NewWSHandler(segmentService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	reaper := worker.NewSegmentReaper(segmentRepo, cfg.SegmentReapInterval, cfg.SegmentStaleAfter, log)
	go reaper.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the reaper. Open segments it misses are swept on next start.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
