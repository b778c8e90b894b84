package state

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// Verbosity controls how much of a location is described on arrival.
type Verbosity string

const (
	VerbosityBrief      Verbosity = "brief"
	VerbosityVerbose    Verbosity = "verbose"
	VerbositySuperbrief Verbosity = "superbrief"
)

// PendingKind names the stateful processor that owns the next turn.
type PendingKind string

const (
	PendingQuit           PendingKind = "quit"
	PendingRestart        PendingKind = "restart"
	PendingDisambiguation PendingKind = "disambiguation"
)

// Pending is a question the game asked and is waiting on. While set, the
// next input goes to its processor before anything else.
type Pending struct {
	Kind   PendingKind `json:"kind"`
	Prompt string      `json:"prompt,omitempty"`
	// Choices maps an answer to the full input it stands for.
	Choices map[string]string `json:"choices,omitempty"`
}

// GameState is the mutable state of one play session, apart from the world records.
type GameState struct {
	ID       uuid.UUID `json:"id"`
	Story    string    `json:"story"`
	Location world.ID  `json:"location"`
	Vehicle  world.ID  `json:"vehicle,omitempty"` // item the player is sitting in

	Score  int `json:"score"`
	Moves  int `json:"moves"`
	Deaths int `json:"deaths"`

	// Actors are turn-actor ids in registration order.
	Actors  []string `json:"actors,omitempty"`
	Pending *Pending `json:"pending,omitempty"`

	Verbosity Verbosity `json:"verbosity"`
	LastNoun  string    `json:"last_noun,omitempty"`
	LastInput string    `json:"last_input,omitempty"`
	Ended     bool      `json:"ended,omitempty"`

	// Per-story extension fields, including actor counters.
	Vars  map[string]int  `json:"vars,omitempty"`
	Flags map[string]bool `json:"flags,omitempty"`

	Player *actor.Player `json:"player,omitempty"`
	World  *world.World  `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGameState returns a fresh session positioned at start.
func NewGameState(story string, start world.ID) *GameState {
	now := time.Now()
	return &GameState{
		ID:        uuid.New(),
		Story:     story,
		Location:  start,
		Verbosity: VerbosityBrief,
		Vars:      make(map[string]int),
		Flags:     make(map[string]bool),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RegisterActor appends id to the actor list. Registering twice is a no-op.
func (gs *GameState) RegisterActor(id string) {
	if slices.Contains(gs.Actors, id) {
		return
	}
	gs.Actors = append(gs.Actors, id)
}

// DeregisterActor removes id from the actor list.
func (gs *GameState) DeregisterActor(id string) {
	if i := slices.Index(gs.Actors, id); i >= 0 {
		gs.Actors = slices.Delete(gs.Actors, i, i+1)
	}
}

// HasActor reports whether id is registered.
func (gs *GameState) HasActor(id string) bool {
	return slices.Contains(gs.Actors, id)
}

// Flag returns a story flag.
func (gs *GameState) Flag(name string) bool {
	return gs.Flags[name]
}

func (gs *GameState) SetFlag(name string, v bool) {
	if gs.Flags == nil {
		gs.Flags = make(map[string]bool)
	}
	gs.Flags[name] = v
}

// Var returns a story counter.
func (gs *GameState) Var(name string) int {
	return gs.Vars[name]
}

func (gs *GameState) SetVar(name string, v int) {
	if gs.Vars == nil {
		gs.Vars = make(map[string]int)
	}
	gs.Vars[name] = v
}

// IncVar adds delta to a counter and returns the new value.
func (gs *GameState) IncVar(name string, delta int) int {
	gs.SetVar(name, gs.Var(name)+delta)
	return gs.Vars[name]
}

// InventoryNames returns the names of the items directly in the inventory.
func (gs *GameState) InventoryNames() []string {
	if gs.World == nil {
		return nil
	}
	names := make([]string, 0, len(gs.World.Inventory))
	for _, id := range gs.World.Inventory {
		names = append(names, gs.World.Item(id).Name)
	}
	return names
}
