package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/adventure-engine/internal/bootstrap"
	"github.com/jwebster45206/adventure-engine/internal/config"
	"github.com/jwebster45206/adventure-engine/internal/logger"
	"github.com/jwebster45206/adventure-engine/internal/services/events"
	"github.com/jwebster45206/adventure-engine/internal/services/queue"
	"github.com/jwebster45206/adventure-engine/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Adventure Engine Worker",
		"environment", cfg.Environment,
		"story", cfg.Story)

	// The worker shares games and locks with the API, which only Redis can do.
	if cfg.StorageBackend != "redis" {
		log.Error("The worker requires STORAGE_BACKEND=redis", "storage_backend", cfg.StorageBackend)
		os.Exit(1)
	}

	stack, err := bootstrap.Build(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer stack.Close()
	log.Info("Storage service initialized successfully")

	turnQueue := queue.NewTurnQueue(queue.NewClientWithRedis(stack.Redis, log))
	broadcaster := events.NewBroadcaster(stack.Redis, log)

	w := worker.New(turnQueue, stack.Sessions, broadcaster, log, cfg.WorkerID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for requests...", "worker_id", w.ID())

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give worker time to finish current request
	time.Sleep(2 * time.Second)

	log.Info("Worker exited")
}
