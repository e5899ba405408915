// File: cmd/area-engine/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/RayanDZ04/area-rattrapage/internal/config"
	httpHandler "github.com/RayanDZ04/area-rattrapage/internal/handler/http"
	"github.com/RayanDZ04/area-rattrapage/internal/infrastructure/database"
	infraPostgres "github.com/RayanDZ04/area-rattrapage/internal/infrastructure/database/postgres"
	"github.com/RayanDZ04/area-rattrapage/internal/provider"
	"github.com/RayanDZ04/area-rattrapage/internal/service"
	"github.com/RayanDZ04/area-rattrapage/internal/utils/logger"
	"github.com/RayanDZ04/area-rattrapage/migrations"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(cfg.Database.DSN(), cfg.Database.MigrationsPath, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	pool, err := infraPostgres.NewDBPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Repositories.
	userRepo := database.NewPgxUserRepository(pool)
	connRepo := database.NewPgxServiceConnectionRepository(pool)
	appletRepo := database.NewPgxAppletRepository(pool)
	runRepo := database.NewPgxAppletRunRepository(pool)

	// Provider capability pairs, resolved once at startup.
	registry := provider.NewGoogleRegistry(
		provider.NewGmailClient(nil),
		provider.NewCalendarClient(nil),
	)

	// Engine services.
	credentialService := service.NewCredentialService(connRepo, cfg.OAuthProviders, cfg.Engine.TokenStaleAfter, log)
	pipeline := service.NewPipelineService(registry, appletRepo, runRepo, log)
	runner := service.NewRunnerService(userRepo, appletRepo, runRepo, credentialService, pipeline, log)
	scheduler := service.NewSchedulerService(appletRepo, runner, cfg.Engine.PollInterval, log)

	// The one long-lived background task, owned by the process lifecycle.
	scheduler.Start(ctx)

	// HTTP surface.
	engineHandler := httpHandler.NewEngineHandler(runner, runRepo, cfg.Engine.RunHistoryLimit, log)
	healthHandler := httpHandler.NewHealthHandler(pool)
	router := httpHandler.SetupRouter(engineHandler, healthHandler, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Error("Server error, initiating shutdown", zap.Error(err))
	case sig := <-quit:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	// Stop the scheduler mid-sleep; in-flight batches are independently
	// logged and resumable on the next start.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("Applet engine stopped")
}
