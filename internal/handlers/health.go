package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/adventure-engine/internal/services"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
	"github.com/redis/go-redis/v9"
)

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

type HealthHandler struct {
	storage    storage.Storage
	llmService services.LLMService
	queue      *redis.Client
	logger     *slog.Logger
}

// NewHealthHandler reports on storage and the narrator. llmService may be nil
// when narration is disabled.
func NewHealthHandler(storage storage.Storage, llmService services.LLMService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storage:    storage,
		llmService: llmService,
		logger:     logger,
	}
}

// WithQueue adds the queue connection to the report.
func (h *HealthHandler) WithQueue(rdb *redis.Client) *HealthHandler {
	h.queue = rdb
	return h
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string)
	overallStatus := "healthy"

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn("Storage health check failed", "error", err)
		components["storage"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["storage"] = "healthy"
	}

	if h.queue != nil {
		if err := h.queue.Ping(ctx).Err(); err != nil {
			h.logger.Warn("Queue health check failed", "error", err)
			components["queue"] = "unhealthy"
			overallStatus = "degraded"
		} else {
			components["queue"] = "healthy"
		}
	}

	// Narration is optional; the engine falls back to its own text.
	if h.llmService == nil {
		components["narrator"] = "disabled"
	} else {
		components["narrator"] = h.llmService.Provider()
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "adventure-engine",
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding health response",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
	}
}
