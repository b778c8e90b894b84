package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// SaveVersion is bumped whenever the blob layout changes incompatibly.
const SaveVersion = 1

var (
	ErrCorruptSave     = errors.New("corrupt save")
	ErrVersionMismatch = errors.New("save version mismatch")
)

const textCouldNotRestore = "Could not restore the saved game. Starting a new game."

type saveFile struct {
	Version int              `json:"version"`
	Story   string           `json:"story"`
	State   *state.GameState `json:"state"`
	World   world.Snapshot   `json:"world"`
}

// Save serializes the session: its state plus the mutable fields of every
// constructed location and item.
func (e *Engine) Save(g *Game) ([]byte, error) {
	data, err := json.Marshal(saveFile{
		Version: SaveVersion,
		Story:   e.def.Name,
		State:   g.State,
		World:   g.World.Snapshot(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal save: %w", err)
	}
	return data, nil
}

// Restore rebuilds a session from a blob produced by Save.
func (e *Engine) Restore(blob []byte) (*Game, error) {
	var f saveFile
	if err := json.Unmarshal(blob, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if f.Version != SaveVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, f.Version, SaveVersion)
	}
	if f.Story != e.def.Name {
		return nil, fmt.Errorf("%w: save is for story %q, not %q", ErrCorruptSave, f.Story, e.def.Name)
	}
	if f.State == nil {
		return nil, fmt.Errorf("%w: missing state", ErrCorruptSave)
	}
	gs := f.State
	if _, ok := e.def.Locations[gs.Location]; !ok {
		return nil, fmt.Errorf("%w: unknown location %q", ErrCorruptSave, gs.Location)
	}
	for _, id := range gs.Actors {
		if _, ok := e.def.Actors[id]; !ok {
			return nil, fmt.Errorf("%w: unknown actor %q", ErrCorruptSave, id)
		}
	}

	w := world.New(e.def)
	if err := w.Restore(f.World); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if gs.Vehicle != "" {
		if it, ok := w.Items[gs.Vehicle]; !ok || it.Vehicle == nil {
			return nil, fmt.Errorf("%w: unknown vehicle %q", ErrCorruptSave, gs.Vehicle)
		}
	}
	gs.World = w
	w.Location(gs.Location)

	if gs.Player == nil {
		spec := e.def.Player
		if spec.MaxHP == 0 {
			spec = actor.DefaultPlayerSpec()
		}
		p, err := actor.NewPlayer(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
		}
		gs.Player = p
	} else if err := gs.Player.Rebuild(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if gs.Vars == nil {
		gs.Vars = make(map[string]int)
	}
	if gs.Flags == nil {
		gs.Flags = make(map[string]bool)
	}
	if gs.Verbosity == "" {
		gs.Verbosity = state.VerbosityBrief
	}
	return e.attach(gs), nil
}

// RestoreOrStart restores blob, or starts a fresh game with an explanation
// when the blob is unusable. It never fails.
func (e *Engine) RestoreOrStart(blob []byte) (*Game, string) {
	g, err := e.Restore(blob)
	if err == nil {
		return g, e.look(g)
	}
	e.logger.Warn("Could not restore game, starting over", "error", err)
	g, intro := e.NewGame()
	g.Warn("restore: " + err.Error())
	return g, joinLines(textCouldNotRestore, "\n"+intro)
}

// Summary returns the host-facing view of a session without playing a turn.
func (e *Engine) Summary(g *Game, narration string) TurnResult {
	return e.summarize(g, narration)
}

// StoryOf reports which story a blob was saved from.
func StoryOf(blob []byte) (string, error) {
	var head struct {
		Story string `json:"story"`
	}
	if err := json.Unmarshal(blob, &head); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if head.Story == "" {
		return "", fmt.Errorf("%w: missing story", ErrCorruptSave)
	}
	return head.Story, nil
}
