package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-tracker/internal/api"
	"finance-tracker/internal/api/handlers"
	"finance-tracker/internal/repository"
	"finance-tracker/internal/service"
	"finance-tracker/pkg/config"
	"finance-tracker/pkg/logger"
	"finance-tracker/pkg/postgres"

	"go.uber.org/zap"
)

// @title Finance Tracker API
// @version 1.0
// @description Personal income and expense tracker

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting finance tracker",
		zap.String("backend", cfg.Store.Backend),
		zap.String("mutation_mode", cfg.Store.MutationMode),
	)

	ctx := context.Background()

	var store service.TransactionStore
	switch cfg.Store.Backend {
	case config.BackendMemory:
		store = repository.NewMemoryTransactionRepository()
		appLogger.Warn("Using in-memory store, data is lost on exit")
	default:
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := postgres.RunMigrations(db, appLogger); err != nil {
				appLogger.Fatal("Failed to migrate database", zap.Error(err))
			}
		}
		store = repository.NewTransactionRepository(db, appLogger)
	}

	txService := service.NewTransactionService(store, cfg.Store.Strict(), appLogger)
	txHandler := handlers.NewTransactionHandler(txService, appLogger)

	app := api.SetupRouter(txHandler, cfg, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	appLogger.Info("Shutting down server", zap.String("signal", sig.String()))
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
