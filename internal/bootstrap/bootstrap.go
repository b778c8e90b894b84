// Package bootstrap assembles the components shared by the API and the
// worker from a Config.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/adventure-engine/internal/config"
	"github.com/jwebster45206/adventure-engine/internal/services"
	"github.com/jwebster45206/adventure-engine/internal/session"
	internalStorage "github.com/jwebster45206/adventure-engine/internal/storage"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
	"github.com/jwebster45206/adventure-engine/pkg/story"
	"github.com/redis/go-redis/v9"
)

const storagePingTimeout = 2 * time.Minute

// Stack is everything a host needs to play games.
type Stack struct {
	Storage storage.Storage
	// Redis is nil when the storage backend is SQLite.
	Redis *redis.Client
	// LLM is nil when LLM_PROVIDER is none.
	LLM      services.LLMService
	Sessions *session.Service

	logger *slog.Logger
}

// Build connects storage, picks the session lock, and prepares the engine
// factory. The default story is built eagerly so a miswired story fails
// startup rather than the first request.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stack, error) {
	s := &Stack{logger: logger}

	var locker session.Locker
	switch cfg.StorageBackend {
	case "sqlite":
		db, err := internalStorage.OpenSQLite(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		s.Storage = db
		locker = session.NewMemoryLocker()
		logger.Info("Using SQLite storage", "path", cfg.SQLitePath)
	default:
		rs, err := internalStorage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, logger)
		if err != nil {
			return nil, err
		}
		s.Storage = rs
		s.Redis = rs.Client()
		locker = session.NewRedisLocker(s.Redis, cfg.LockTTL, logger)
		logger.Info("Using Redis storage", "session_ttl", cfg.SessionTTL)
	}

	pingCtx, cancel := context.WithTimeout(ctx, storagePingTimeout)
	defer cancel()
	if err := s.Storage.Ping(pingCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	llm, err := services.NewLLMService(ctx, cfg, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.LLM = llm

	s.Sessions = session.NewService(EngineFunc(cfg, s.LLM, s.Storage, logger), cfg.Story, s.Storage, locker, logger)
	if _, err := s.Sessions.Engine(cfg.Story); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// EngineFunc builds engines for named stories. With an LLM configured, each
// engine narrates through it, and parses through it when PARSER=llm.
func EngineFunc(cfg *config.Config, llm services.LLMService, slots engine.SaveSlots, logger *slog.Logger) session.EngineFunc {
	return func(name string) (*engine.Engine, error) {
		def, err := story.Load(name)
		if err != nil {
			return nil, err
		}
		opts := []engine.Option{
			engine.WithLogger(logger.With("story", def.Name)),
			engine.WithSaveSlots(slots),
			engine.WithNarrationTimeout(cfg.NarrationTimeout),
		}
		if llm != nil {
			opts = append(opts, engine.WithNarrator(services.NewLLMNarrator(llm, def.Title, cfg.ContentRating, logger)))
			if cfg.Parser == "llm" {
				opts = append(opts, engine.WithParser(services.NewIntentParser(llm, logger)))
			}
		}
		logger.Info("Story loaded", "story", def.Name, "parser", cfg.Parser, "narrator", llm != nil)
		return engine.New(def, opts...), nil
	}
}

// Close releases the LLM client and storage.
func (s *Stack) Close() {
	var errs []error
	if s.LLM != nil {
		errs = append(errs, s.LLM.Close())
	}
	if s.Storage != nil {
		errs = append(errs, s.Storage.Close())
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Error("Error closing stack", "error", err)
	}
}
