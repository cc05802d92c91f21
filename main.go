package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artSparkAPI/internal/app"
	"artSparkAPI/internal/config"
	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/workers"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger.Init(cfg)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("failed to start", zap.Error(err))
	}
	defer func() {
		logger.Log.Info("closing store and push dispatcher")
		a.Close()
	}()

	a.StartBackground(ctx)

	var scheduler *workers.Scheduler
	if cfg.Server.SchedulerEnabled {
		scheduler = a.Scheduler()
		if err := scheduler.Start(ctx); err != nil {
			logger.Log.Fatal("failed to start scheduler", zap.Error(err))
		}

		// A deploy that lands after midnight should not leave the day empty.
		if _, _, err := a.Challenges.EnsureToday(ctx); err != nil {
			logger.Log.Error("failed to ensure today's challenge", zap.Error(err))
		}
	}

	server := http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      a.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("mode", cfg.Server.Mode))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("error starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server shutdown error", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Wait()
	}

	logger.Log.Info("server shutdown complete")
}
