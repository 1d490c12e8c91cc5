package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/ashborne/internal/config"
	"github.com/jwebster45206/ashborne/internal/handlers"
	"github.com/jwebster45206/ashborne/internal/logger"
	"github.com/jwebster45206/ashborne/internal/middleware"
	redisstorage "github.com/jwebster45206/ashborne/internal/storage"
	"github.com/jwebster45206/ashborne/pkg/storage"
	"github.com/jwebster45206/ashborne/pkg/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Ashborne API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage", cfg.Storage)

	w, err := loadWorld(cfg.WorldFile)
	if err != nil {
		log.Error("Failed to load world", "error", err, "file", cfg.WorldFile)
		os.Exit(1)
	}
	log.Info("World loaded", "name", w.Name, "scenes", len(w.Scenes), "entry_scene", w.EntryScene)

	store, err := openStorage(cfg, log)
	if err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, w.Name, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(log, w, store, cfg.MaxHealth, cfg.RNGSeed)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(log, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

func loadWorld(path string) (*world.World, error) {
	if path == "" {
		return world.Default()
	}
	return world.LoadFile(path)
}

func openStorage(cfg *config.Config, log *slog.Logger) (storage.Storage, error) {
	if cfg.Storage != config.StorageRedis {
		return storage.NewMemoryStorage(cfg.SessionTTL), nil
	}

	rs, err := redisstorage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, log)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := rs.WaitForConnection(ctx, 30, 2*time.Second); err != nil {
		_ = rs.Close()
		return nil, err
	}
	return rs, nil
}
