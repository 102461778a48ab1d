package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lakeshorecc/classreg-backend/internal/config"
	"github.com/lakeshorecc/classreg-backend/internal/database"
	"github.com/lakeshorecc/classreg-backend/internal/handler"
	"github.com/lakeshorecc/classreg-backend/internal/logger"
	"github.com/lakeshorecc/classreg-backend/internal/repository"
	"github.com/lakeshorecc/classreg-backend/internal/router"
	"github.com/lakeshorecc/classreg-backend/internal/service"
	"github.com/lakeshorecc/classreg-backend/internal/validator"
	"github.com/lakeshorecc/classreg-backend/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting ClassReg Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories.
	classRepo := repository.NewClassRepository(pool)
	registrantRepo := repository.NewRegistrantRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool)
	familyRepo := repository.NewFamilyRepository(pool)
	cancellationRepo := repository.NewCancellationRepository(pool)

	// Services.
	authService := service.NewAuthService(cfg, rdb, registrantRepo, log)
	accountService := service.NewAccountService(pool, authService, registrantRepo, classRepo, registrationRepo, cancellationRepo, log)
	classService := service.NewClassService(pool, rdb, classRepo, registrationRepo, cancellationRepo, log)
	registrationService := service.NewRegistrationService(pool, classRepo, registrantRepo, registrationRepo, log)
	familyService := service.NewFamilyService(pool, familyRepo, registrantRepo, classRepo, registrationRepo, cancellationRepo, log)
	noticeService := service.NewNoticeService(cancellationRepo, log)

	// Handlers.
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, accountService, noticeService),
		Class:        handler.NewClassHandler(classService),
		Registration: handler.NewRegistrationHandler(registrationService),
		Family:       handler.NewFamilyHandler(familyService, registrationService),
		Notice:       handler.NewNoticeHandler(noticeService),
		Staff:        handler.NewStaffHandler(accountService),
		Monitor:      handler.NewMonitorHandler(classService, log, cfg.AllowedOrigins),
	}

	// Background workers.
	workerCtx, workerCancel := context.WithCancel(context.Background())

	auditWorker := worker.NewCapacityAuditWorker(classRepo, cfg.CapacityAuditInterval, log)
	go auditWorker.Start(workerCtx)

	r := router.SetupRouter(authService, handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
