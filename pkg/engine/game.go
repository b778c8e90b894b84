package engine

import (
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// Game is one live session: its state, its world, and the story it plays.
// Hooks and actors receive the Game and mutate the session through it.
type Game struct {
	Def   *Definition
	State *state.GameState
	World *world.World

	eng      *Engine
	death    *string
	warnings []string
}

// Location returns the player's current location record.
func (g *Game) Location() *world.Location {
	return g.World.Location(g.State.Location)
}

// Item returns an item record by id.
func (g *Game) Item(id world.ID) *world.Item {
	return g.World.Item(id)
}

// Here reports whether the player is at loc.
func (g *Game) Here(loc world.ID) bool {
	return g.State.Location == loc
}

// Dark reports whether the player's location is currently unlit.
func (g *Game) Dark() bool {
	return g.World.IsDark(g.State.Location)
}

// Die marks the turn as fatal. The death is applied once the current step
// finishes; only the first call in a turn counts.
func (g *Game) Die(message string) {
	if g.death == nil {
		g.death = &message
	}
}

// Dying reports whether a death is pending for this turn.
func (g *Game) Dying() bool {
	return g.death != nil
}

func (g *Game) takeDeath() (string, bool) {
	if g.death == nil {
		return "", false
	}
	msg := *g.death
	g.death = nil
	return msg, true
}

// AddPoints adjusts the score.
func (g *Game) AddPoints(n int) {
	g.State.Score += n
}

// RegisterActor schedules a story actor to run after every timed turn.
func (g *Game) RegisterActor(id string) {
	if _, ok := g.Def.Actors[id]; !ok {
		panic(fmt.Sprintf("engine: story %q has no actor %q", g.Def.Name, id))
	}
	g.State.RegisterActor(id)
}

// DeregisterActor stops an actor. Safe to call from the actor itself.
func (g *Game) DeregisterActor(id string) {
	g.State.DeregisterActor(id)
}

// MoveTo relocates the player without going through an exit, e.g. a fall
// or a teleport, and returns the arrival narration.
func (g *Game) MoveTo(loc world.ID) string {
	g.World.Location(loc)
	g.State.Location = loc
	g.State.Vehicle = ""
	return g.eng.arrive(g)
}

// Wound damages the player. Reaching zero hit points kills them with deathText.
func (g *Game) Wound(damage int, deathText string) {
	if g.State.Player == nil {
		return
	}
	dead, err := g.State.Player.Wound(damage)
	if err != nil {
		g.eng.logger.Error("Failed to wound player", "game_state_id", g.State.ID, "error", err)
		return
	}
	if dead {
		g.Die(deathText)
	}
}

// Warn records a soft failure for the host.
func (g *Game) Warn(msg string) {
	g.warnings = append(g.warnings, msg)
}
