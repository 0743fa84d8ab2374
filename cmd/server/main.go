package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/database"
	"github.com/examhall/examhall-backend/internal/handler"
	"github.com/examhall/examhall-backend/internal/logger"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/examhall/examhall-backend/internal/router"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/examhall/examhall-backend/internal/worker"
	"github.com/rs/zerolog"
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
		Msg("Starting ExamHall Backend")

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
	terminalRepo := repository.NewTerminalRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	auditService := service.NewAuditService(rdb)
	authService := service.NewAuthService(adminRepo, rdb, cfg.JWTSecret, cfg.JWTExpiry)
	terminalService := service.NewTerminalService(terminalRepo, studentRepo, examRepo, resultRepo, auditService)
	examService := service.NewExamService(examRepo, questionRepo, auditService)
	attemptService := service.NewAttemptService(examRepo, questionRepo, studentRepo, resultRepo, terminalRepo)
	studentService := service.NewStudentService(studentRepo, examRepo, terminalRepo, auditService)
	questionService := service.NewQuestionService(questionRepo, auditService)
	adminService := service.NewAdminService(adminRepo, auditService, cfg.BcryptCost)
	reportService := service.NewReportService(resultRepo, auditRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Terminal:      handler.NewTerminalHandler(terminalService),
		Attempt:       handler.NewAttemptHandler(attemptService),
		AdminTerminal: handler.NewAdminTerminalHandler(terminalService),
		Exam:          handler.NewExamHandler(examService),
		Student:       handler.NewStudentHandler(studentService),
		Question:      handler.NewQuestionHandler(questionService),
		Report:        handler.NewReportHandler(reportService),
		AdminUser:     handler.NewAdminUserHandler(adminService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	auditWorker := worker.NewAuditWorker(rdb, auditRepo)
	expiryWorker := worker.NewExpiryWorker(examService, cfg.ExpirySweepInterval, cfg.ExpiryGrace)

	go auditWorker.Run(workerCtx)
	go expiryWorker.Run(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.New(cfg, authService, handlers)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
