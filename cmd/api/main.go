package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/atelier-api/internal/config"
	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/server"
	"github.com/gravadigital/atelier-api/internal/storage"
)

func main() {
	cfg := config.Load()
	logger.Initialize(cfg.Server.LogLevel)
	log := logger.Get()

	container, err := storage.DefaultFactory().CreateContainer(cfg)
	if err != nil {
		log.Fatal("Failed to create storage container", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := container.Store().Ping(ctx); err != nil {
		cancel()
		log.Fatal("Failed to reach Redis", "addr", cfg.Redis.Addr, "error", err)
	}
	cancel()
	log.Info("Connected to Redis", "addr", cfg.Redis.Addr, "session_ttl", cfg.Session.TTL)

	srv := server.New(cfg, container)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("Server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}

	if err := container.Store().Close(); err != nil {
		log.Error("Failed to close Redis client", "error", err)
	}

	log.Info("Server stopped")
}
