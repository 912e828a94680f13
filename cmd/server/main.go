package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/config"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/database"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/logger"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(appLog)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		appLog.Fatal().Err(err).Msg("Failed to migrate database")
	}

	appLog.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	services := api.NewServices(db, cfg, appLog)

	// Periodic settlement of matured fixed-term deposits
	sched := scheduler.New(logger.Component(appLog, "scheduler"))
	if cfg.Settlement.Enabled {
		job := scheduler.NewSettlementJob(services.Settlement, logger.Component(appLog, "settlement"))
		if err := sched.AddJob(cfg.Settlement.Schedule, job); err != nil {
			appLog.Fatal().Err(err).Msg("Failed to schedule settlement")
		}
		// Settle anything that matured while the server was down.
		if err := sched.RunNow(job); err != nil {
			appLog.Error().Err(err).Msg("Initial settlement failed")
		}
	}
	sched.Start()
	defer sched.Stop()

	// Create router
	router := api.NewRouter(services, cfg, logger.Component(appLog, "http"))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLog.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error().Err(err).Msg("Server forced to shutdown")
	}

	appLog.Info().Msg("Server exited")
}
