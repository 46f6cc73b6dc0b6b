package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"furnish-must/internal/config"
	"furnish-must/internal/database"
	"furnish-must/internal/logger"
	"furnish-must/internal/server"
	"furnish-must/internal/storage"

	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, db *database.Service, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	if err := db.Close(ctx); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting furniture storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize database
	ctx := context.Background()
	db, err := database.New(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Ensure indexes the query paths depend on
	if err := database.EnsureIndexes(ctx, db.DB(), log); err != nil {
		log.Fatal("Failed to ensure database indexes", zap.Error(err))
	}

	// Image storage is optional in development
	var images storage.ImageStore
	if cfg.Storage.Bucket != "" {
		images, err = storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
	} else {
		log.Warn("S3_BUCKET not set, image uploads disabled")
	}

	// Create server
	srv := server.NewServer(cfg, log, db, images)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, db, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}
