package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ebroker-go/internal/broker"
	"ebroker-go/internal/config"
	"ebroker-go/internal/database"
	"ebroker-go/internal/logger"
	"ebroker-go/internal/models"
	"ebroker-go/internal/repository"
	"ebroker-go/internal/server"

	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	// Wire repositories and managers
	traderRepo := repository.NewTraderRepository(db)
	equityRepo := repository.NewEquityRepository(db)
	traderManager := broker.NewTraderManager(traderRepo, equityRepo, log)
	equityManager := broker.NewManager[models.Equity](equityRepo, log)

	// Start the HTTP API
	srv := server.New(cfg.Server, traderManager, equityManager, log)
	srv.Start()

	// Wait for a shutdown signal
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan
	log.Info("Shutdown signal received, gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Error("Failed to stop server cleanly", zap.Error(err))
	}

	log.Info("Server has been shut down.")
}
