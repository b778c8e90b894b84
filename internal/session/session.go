// Package session hosts games for the API and the worker: it loads a
// session, plays one turn under the session lock, and persists the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

var (
	ErrBusy     = errors.New("another turn is in progress for this game")
	ErrNotFound = errors.New("game not found")
)

// EngineFunc builds the engine for a story name.
type EngineFunc func(story string) (*engine.Engine, error)

// GameSummary is a read-only view of a session.
type GameSummary struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	Story       string    `json:"story"`
	Location    string    `json:"location"`
	Moves       int       `json:"moves"`
	Score       int       `json:"score"`
	Deaths      int       `json:"deaths"`
	Ended       bool      `json:"ended,omitempty"`
	Inventory   []string  `json:"inventory"`
}

type Service struct {
	build        EngineFunc
	defaultStory string
	store        storage.Storage
	locker       Locker
	logger       *slog.Logger

	mu      sync.Mutex
	engines map[string]*engine.Engine
}

func NewService(build EngineFunc, defaultStory string, store storage.Storage, locker Locker, logger *slog.Logger) *Service {
	return &Service{
		build:        build,
		defaultStory: defaultStory,
		store:        store,
		locker:       locker,
		logger:       logger,
		engines:      make(map[string]*engine.Engine),
	}
}

// Engine returns the cached engine for story, building it on first use.
func (s *Service) Engine(story string) (*engine.Engine, error) {
	if story == "" {
		story = s.defaultStory
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.engines[story]; ok {
		return e, nil
	}
	e, err := s.build(story)
	if err != nil {
		return nil, err
	}
	s.engines[story] = e
	return e, nil
}

// Start creates a new session of story (the default when empty).
func (s *Service) Start(ctx context.Context, story string) (uuid.UUID, engine.TurnResult, error) {
	e, err := s.Engine(story)
	if err != nil {
		return uuid.Nil, engine.TurnResult{}, err
	}
	g, intro := e.NewGame()
	if err := s.persist(ctx, e, g); err != nil {
		return uuid.Nil, engine.TurnResult{}, err
	}
	s.logger.Info("Game started", "game_state_id", g.State.ID, "story", e.Definition().Name)
	return g.State.ID, e.Summary(g, intro), nil
}

// Submit plays one turn. A failure to persist the result does not fail the
// turn; it is reported as a warning.
func (s *Service) Submit(ctx context.Context, id uuid.UUID, input string) (engine.TurnResult, error) {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return engine.TurnResult{}, err
	}
	defer release()

	blob, err := s.load(ctx, id)
	if err != nil {
		return engine.TurnResult{}, err
	}
	e, g, recovered := s.open(id, blob)

	var res engine.TurnResult
	if recovered != "" {
		res = e.Summary(g, recovered)
	} else {
		res = e.Submit(ctx, g, input)
	}

	if err := s.persist(ctx, e, g); err != nil {
		res.Warnings = append(res.Warnings, "storage: game state was not saved")
	}
	return res, nil
}

// Summary describes a session without playing a turn.
func (s *Service) Summary(ctx context.Context, id uuid.UUID) (*GameSummary, error) {
	blob, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	e, g, _ := s.open(id, blob)
	res := e.Summary(g, "")
	return &GameSummary{
		GameStateID: id,
		Story:       e.Definition().Name,
		Location:    res.Location,
		Moves:       res.Moves,
		Score:       res.Score,
		Deaths:      res.Deaths,
		Ended:       res.Ended,
		Inventory:   g.State.InventoryNames(),
	}, nil
}

// Save returns the session's current blob.
func (s *Service) Save(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.load(ctx, id)
}

// Restore replaces the session with blob. An unusable blob starts a fresh
// game and says so in the narration.
func (s *Service) Restore(ctx context.Context, id uuid.UUID, blob []byte) (engine.TurnResult, error) {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return engine.TurnResult{}, err
	}
	defer release()

	e, err := s.engineFor(blob)
	if err != nil {
		s.logger.Warn("Restore blob names no usable story", "game_state_id", id, "error", err)
		if e, err = s.Engine(""); err != nil {
			return engine.TurnResult{}, err
		}
	}
	g, narration := e.RestoreOrStart(blob)
	g.State.ID = id

	res := e.Summary(g, narration)
	if err := s.persist(ctx, e, g); err != nil {
		return engine.TurnResult{}, err
	}
	return res, nil
}

// Delete removes a session and its save slot.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) ([]byte, error) {
	blob, err := s.store.LoadSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if blob == nil {
		return nil, ErrNotFound
	}
	return blob, nil
}

// open restores a stored session. A stored blob the engine rejects is
// replaced by a fresh game; recovered then holds the narration for that.
func (s *Service) open(id uuid.UUID, blob []byte) (e *engine.Engine, g *engine.Game, recovered string) {
	e, err := s.engineFor(blob)
	if err != nil {
		s.logger.Warn("Stored game names no usable story", "game_state_id", id, "error", err)
		e, err = s.Engine("")
		if err != nil {
			panic(fmt.Sprintf("session: default story unavailable: %v", err))
		}
	}
	g, err = e.Restore(blob)
	if err == nil {
		return e, g, ""
	}
	s.logger.Warn("Stored game is unusable, starting over", "game_state_id", id, "error", err)
	g, recovered = e.RestoreOrStart(blob)
	g.State.ID = id
	return e, g, recovered
}

func (s *Service) engineFor(blob []byte) (*engine.Engine, error) {
	story, err := engine.StoryOf(blob)
	if err != nil {
		return nil, err
	}
	return s.Engine(story)
}

func (s *Service) persist(ctx context.Context, e *engine.Engine, g *engine.Game) error {
	blob, err := e.Save(g)
	if err != nil {
		s.logger.Error("Failed to serialize game", "game_state_id", g.State.ID, "error", err)
		return err
	}
	if err := s.store.SaveSession(ctx, g.State.ID, blob); err != nil {
		s.logger.Error("Failed to save game", "game_state_id", g.State.ID, "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}
