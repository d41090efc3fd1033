package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-admin/internal/config"
	"catalog-admin/internal/domain"
	"catalog-admin/internal/logger"
	"catalog-admin/internal/server"

	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
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

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// demoProducts gives a fresh server something to list
var demoProducts = []domain.Product{
	{Title: "Desk lamp", Category: "home", OriginPrice: 1200, Price: 990, Unit: "pcs", IsEnabled: true, ImagesURL: []string{}},
	{Title: "Notebook", Category: "stationery", OriginPrice: 80, Price: 60, Unit: "pcs", ImagesURL: []string{}},
}

func main() {
	// Parse flags
	fs := config.Flags("fakeapi")
	fs.Bool("seed", true, "seed the API path with demo products")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Load configuration
	cfg := config.Load(fs)

	// Initialize logger
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting fake admin API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("admin", cfg.Admin.Username),
	)

	// Create server
	srv, err := server.NewServer(cfg, log)
	if err != nil {
		log.Fatal("Failed to create server", zap.Error(err))
	}

	// Seed demo products
	if seed, _ := fs.GetBool("seed"); seed && cfg.API.Path != "" {
		srv.Catalog().Seed(cfg.API.Path, demoProducts...)
		log.Info("Seeded demo products", zap.String("api_path", cfg.API.Path), zap.Int("count", len(demoProducts)))
	}

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}
