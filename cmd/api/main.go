package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/adventure-engine/internal/bootstrap"
	"github.com/jwebster45206/adventure-engine/internal/config"
	"github.com/jwebster45206/adventure-engine/internal/handlers"
	"github.com/jwebster45206/adventure-engine/internal/logger"
	"github.com/jwebster45206/adventure-engine/internal/middleware"
	"github.com/jwebster45206/adventure-engine/internal/services/events"
	"github.com/jwebster45206/adventure-engine/internal/services/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Adventure Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"story", cfg.Story,
		"storage_backend", cfg.StorageBackend,
		"parser", cfg.Parser,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	stack, err := bootstrap.Build(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(stack.Storage, stack.LLM, log)
	mux.Handle("/health", healthHandler)

	mux.Handle("/v1/stories", handlers.NewStoriesHandler(log))

	gameStateHandler := handlers.NewGameStateHandler(stack.Sessions, log)
	mux.Handle("/v1/gamestate", gameStateHandler)
	mux.Handle("/v1/gamestate/", gameStateHandler)

	turnHandler := handlers.NewTurnHandler(stack.Sessions, log)
	if stack.Redis != nil {
		// Async turns and events share the storage connection.
		broadcaster := events.NewBroadcaster(stack.Redis, log)
		turnQueue := queue.NewTurnQueue(queue.NewClientWithRedis(stack.Redis, log))
		turnHandler.WithQueue(turnQueue, broadcaster)
		healthHandler.WithQueue(stack.Redis)
		mux.Handle("/v1/events/gamestate/", handlers.NewEventsHandler(broadcaster, log))
		log.Info("Async turns enabled")
	} else {
		log.Info("Async turns disabled; they need Redis storage")
	}
	mux.Handle("/v1/turn", turnHandler)
	mux.Handle("/v1/turn/", turnHandler)

	handler := middleware.LoggerWith(log, mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the SSE endpoint holds connections open
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	stack.Close()

	log.Info("Server exited")
}
