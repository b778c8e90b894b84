package logger

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/config"
)

// Setup installs the process logger: JSON in production, text elsewhere.
// Debug level also records the source line.
func Setup(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel,
		AddSource: cfg.LogLevel <= slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With("story", cfg.Story)
	slog.SetDefault(logger)
	return logger
}

// WithRequestID adds request ID to logger context
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}

// WithGameID scopes a logger to one session.
func WithGameID(logger *slog.Logger, id uuid.UUID) *slog.Logger {
	return logger.With("game_state_id", id.String())
}
