package engine

import (
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

const (
	textNoExit        = "You can't go that way."
	textBlocked       = "The way is blocked."
	textTooHeavy      = "You are carrying too much to fit through there."
	textNotInVehicle  = "You aren't in anything."
	textOnFeetAgain   = "You are on your own feet again."
	textAlreadyInside = "You are already in the %s."
)

// move resolves a movement intent through the current location's exits.
func (e *Engine) move(g *Game, dir string) Result {
	if g.State.Vehicle != "" {
		if dir == "out" {
			return e.exit(g, intent.ExitSub{})
		}
		return Positive{Message: fmt.Sprintf("You'll have to get out of the %s first.", g.Item(g.State.Vehicle).Name)}
	}

	from := e.def.location(g.State.Location)
	exit, ok := from.Exits[dir]
	if !ok {
		return Positive{Message: textNoExit}
	}
	// The destination is built before the guard runs so guards may inspect it.
	g.World.Location(exit.To)

	if exit.WeightLimit > 0 && g.World.CarryWeight() > exit.WeightLimit {
		return Positive{Message: firstNonEmpty(exit.WeightLimitText, exit.FailText, textTooHeavy)}
	}
	if exit.Guard != nil && !exit.Guard(g) {
		return Positive{Message: firstNonEmpty(exit.FailText, textBlocked)}
	}

	// Pronouns do not follow the player into a new location.
	g.State.LastNoun = ""
	return Positive{Message: e.travel(g, from, exit.To)}
}

// travel runs the leave and enter hooks around the location change. A hook
// that kills the player stops the sequence.
func (e *Engine) travel(g *Game, from *LocationDef, to world.ID) string {
	var parts []string
	if from.OnLeave != nil {
		parts = append(parts, from.OnLeave(g))
		if g.Dying() {
			return joinLines(parts...)
		}
	}

	g.State.Location = to
	dest := e.def.location(to)
	if dest.BeforeEnter != nil {
		parts = append(parts, dest.BeforeEnter(g))
		if g.Dying() {
			return joinLines(parts...)
		}
	}
	parts = append(parts, e.arrive(g))
	if dest.AfterEnter != nil {
		parts = append(parts, dest.AfterEnter(g))
	}
	return joinLines(parts...)
}

func (e *Engine) enter(g *Game, in intent.EnterSub) Result {
	if g.Dark() {
		return Positive{Message: textTooDark}
	}
	it, res := e.resolveNoun(g, in.Noun, "enter %s")
	if res != nil {
		return res
	}
	if it.Vehicle == nil {
		return NoVerbMatch{Verb: "enter", Noun: in.Noun, Message: fmt.Sprintf("You can't get into the %s.", it.Name)}
	}
	if g.State.Vehicle == it.ID {
		return Positive{Message: fmt.Sprintf(textAlreadyInside, it.Name)}
	}
	if g.World.Carrying(it.ID) {
		return Positive{Message: fmt.Sprintf("You'll have to put the %s down first.", it.Name)}
	}
	g.State.Vehicle = it.ID
	return Positive{Message: firstNonEmpty(it.Vehicle.EnterText, fmt.Sprintf("You are now in the %s.", it.Name))}
}

func (e *Engine) exit(g *Game, in intent.ExitSub) Result {
	if g.State.Vehicle == "" {
		return Positive{Message: textNotInVehicle}
	}
	it := g.Item(g.State.Vehicle)
	if in.Noun != "" && !it.MatchesNoun(in.Noun) {
		return Positive{Message: fmt.Sprintf("You aren't in the %s.", in.Noun)}
	}
	g.State.Vehicle = ""
	return Positive{Message: firstNonEmpty(it.Vehicle.ExitText, textOnFeetAgain)}
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
