package engine

import (
	"fmt"
	"slices"

	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

var (
	examineVerbs = []string{"examine", "look", "describe", "search"}
	takeVerbs    = []string{"take", "get", "grab", "hold", "pick up", "acquire", "snatch"}
	dropVerbs    = []string{"drop", "release", "leave"}
	readVerbs    = []string{"read", "peruse", "skim"}
	openVerbs    = []string{"open"}
	closeVerbs   = []string{"close"}
	onVerbs      = []string{"turn on", "switch on", "light", "activate"}
	offVerbs     = []string{"turn off", "switch off", "extinguish", "douse", "deactivate"}
	eatVerbs     = []string{"eat", "consume", "devour", "bite"}
	drinkVerbs   = []string{"drink", "sip", "quaff", "swallow"}
	wearVerbs    = []string{"wear", "don"}
	unwearVerbs  = []string{"remove", "doff"}
	attackVerbs  = []string{"attack", "kill", "fight", "hit", "stab", "slay", "murder", "strike"}
)

// simpleProcessor handles one capability. It reports false when the item
// lacks the capability or the verb is not its own, letting the chain move on.
type simpleProcessor func(e *Engine, g *Game, in intent.Simple, it *world.Item) (Result, bool)

// simpleProcessors is the fixed priority order. The first processor that
// claims the intent wins; nothing after it runs.
var simpleProcessors = []simpleProcessor{
	processExamine,
	processTakeDrop,
	processRead,
	processOpenClose,
	processToggle,
	processEat,
	processWear,
	processAttack,
}

// simple resolves a verb applied to a single noun.
func (e *Engine) simple(g *Game, in intent.Simple) Result {
	if in.Noun == "it" || in.Noun == "them" {
		if g.State.LastNoun == "" {
			return NoNounMatch{Noun: in.Noun, Message: "I'm not sure what you're referring to."}
		}
		in.Noun = g.State.LastNoun
	}

	def := e.def.location(g.State.Location)
	if def.Respond != nil {
		if res, ok := def.Respond(g, in); ok {
			return res
		}
	}

	if in.Noun == "" {
		if isProcessorVerb(in.Verb) {
			return NoVerbMatch{Verb: in.Verb, Message: fmt.Sprintf("What do you want to %s?", in.Verb)}
		}
		return NoVerbMatch{Verb: in.Verb}
	}

	it, res := e.resolveNoun(g, in.Noun, in.Verb+" %s")
	if res != nil {
		return res
	}
	g.State.LastNoun = in.Noun

	for _, p := range simpleProcessors {
		if res, ok := p(e, g, in, it); ok {
			return res
		}
	}
	return NoVerbMatch{Verb: in.Verb, Noun: it.Name}
}

func isProcessorVerb(verb string) bool {
	for _, verbs := range [][]string{examineVerbs, takeVerbs, dropVerbs, readVerbs, openVerbs, closeVerbs, onVerbs, offVerbs, eatVerbs, drinkVerbs, wearVerbs, unwearVerbs, attackVerbs, giveVerbs} {
		if slices.Contains(verbs, verb) {
			return true
		}
	}
	return false
}

func processExamine(e *Engine, g *Game, in intent.Simple, it *world.Item) (Result, bool) {
	if it.Examinable == nil || !in.MatchVerb(examineVerbs) {
		return nil, false
	}
	text := it.Examinable.Text
	if text == "" {
		text = fmt.Sprintf("There's nothing special about the %s.", it.Name)
	}
	lines := []string{text}
	switch {
	case it.IsClosed():
		lines = append(lines, fmt.Sprintf("The %s is closed.", it.Name))
	case it.Container != nil:
		if contents := e.listContents(g, it, ""); len(contents) > 0 {
			lines = append(lines, contents...)
		} else if it.Openable != nil {
			lines = append(lines, fmt.Sprintf("The %s is empty.", it.Name))
		}
	}
	if it.Toggleable != nil {
		state := "off"
		if it.Toggleable.On {
			state = "on"
		}
		lines = append(lines, fmt.Sprintf("The %s is %s.", it.Name, state))
	}
	return Positive{Message: joinLines(lines...)}, true
}

func processTakeDrop(e *Engine, g *Game, in intent.Simple, it *world.Item) (Result, bool) {
	switch {
	case in.MatchVerb(takeVerbs):
		return Positive{Message: e.take(g, it)}, true
	case in.MatchVerb(dropVerbs) && it.Takeable != nil:
		return Positive{Message: e.drop(g, it)}, true
	}
	return nil, false
}

// take moves an item into the inventory. Items without Takeable answer with
// their cannot-take text.
func (e *Engine) take(g *Game, it *world.Item) string {
	if it.Takeable == nil {
		return firstNonEmpty(it.CannotTakeText, "You can't take that.")
	}
	if it.Owner == world.Inventory {
		return "You already have that!"
	}
	if g.State.Vehicle == it.ID {
		return "You can't take something you are sitting in."
	}
	if e.def.CarryLimit > 0 && !g.World.Carrying(it.ID) &&
		g.World.CarryWeight()+g.World.Weight(it.ID) > e.def.CarryLimit {
		return "Your load is too heavy."
	}
	g.World.Move(it.ID, world.Inventory)
	if !it.EverPickedUp {
		it.EverPickedUp = true
		g.AddPoints(it.Takeable.Points)
	}
	return "Taken."
}

func (e *Engine) drop(g *Game, it *world.Item) string {
	if !g.World.Carrying(it.ID) {
		return "You don't have that!"
	}
	g.World.Move(it.ID, world.InLocation(g.State.Location))
	return "Dropped."
}

func processRead(e *Engine, g *Game, in intent.Simple, it *world.Item) (Result, bool) {
	if it.Readable == nil || !in.MatchVerb(readVerbs) {
		return nil, false
	}
	return Positive{Message: it.Readable.Text}, true
}

func processOpenClose(e *Engine, g *Game, in intent.Simple, it *world.Item) (Result, bool) {
	if it.Openable == nil {
		return nil, false
	}
	o := it.Openable
	switch {
	case in.MatchVerb(openVerbs):
		if o.Open {
			return Positive{Message: "It is already open."}, true
		}
		if o.Locked {
			return Positive{Message: firstNonEmpty(o.LockedText, fmt.Sprintf("The %s is locked.", it.Name))}, true
		}
		o.Open = true
		if o.OpenText != "" {
			return Positive{Message: o.OpenText}, true
		}
		if it.Container != nil {
			if names := visibleNames(g, it); names != "" {
				return Positive{Message: fmt.Sprintf("Opening the %s reveals %s.", it.Name, names)}, true
			}
		}
		return Positive{Message: "Opened."}, true
	case in.MatchVerb(closeVerbs):
		if !o.Open {
			return Positive{Message: "It is already closed."}, true
		}
		o.Open = false
		return Positive{Message: firstNonEmpty(o.CloseText, "Closed.")}, true
	}
	return nil, false
}

func processToggle(e *Engine, g *Game, in intent.Simple, it *world.Item) (Result, bool) {
	if it.Toggleable == nil {
		return nil, false
	}
	t := it.Toggleable
	wasDark := g.Dark()
	switch {
	case in.MatchVerb(onVerbs):
		if t.On {
			return Positive{Message: "It is already on."}, true
		}
		t.On = true
		text := firstNonEmpty(t.OnText, fmt.Sprintf("The %s is now on.", it.Name))
		if wasDark && !g.Dark() {
			text = joinLines(text, e.look(g))
		}
		return Positive{Message: text}, true
	case in.MatchVerb(offVerbs):
		if !t.On {
			return Positive{Message: "It is already off."}, true
		}
		t.On = false
		text := firstNonEmpty(t.OffText, fmt.Sprintf("The %s is now off.", it.Name))
		if !wasDark && g.Dark() {
			text = joinLines(text, "It is now pitch black.")
		}
		return Positive{Message: text}, true
	}
	return nil, false
}

func processEat(e *Engine, g *Game, in intent.Simple, it *world.Item) (Result, bool) {
	if it.Edible == nil {
		return nil, false
	}
	verbs := eatVerbs
	if it.Edible.Drink {
		verbs = drinkVerbs
	}
	if !in.MatchVerb(verbs) {
		return nil, false
	}

	prefix := ""
	if !g.World.Carrying(it.ID) {
		prefix = "(Taken)"
	}
	g.World.Remove(it.ID)
	if it.Edible.Fatal != "" {
		return Death{Message: joinLines(prefix, it.Edible.Fatal)}, true
	}
	text := it.Edible.Text
	if text == "" {
		text = "Thank you very much. It really hit the spot."
	}
	return Positive{Message: joinLines(prefix, text)}, true
}

func processWear(e *Engine, g *Game, in intent.Simple, it *world.Item) (Result, bool) {
	if it.Wearable == nil {
		return nil, false
	}
	w := it.Wearable
	switch {
	case in.MatchVerb(wearVerbs):
		if w.Worn {
			return Positive{Message: "You are already wearing that."}, true
		}
		if !g.World.Carrying(it.ID) {
			return Positive{Message: fmt.Sprintf("You don't have the %s.", it.Name)}, true
		}
		if it.Owner != world.Inventory {
			g.World.Move(it.ID, world.Inventory)
		}
		w.Worn = true
		return Positive{Message: firstNonEmpty(w.WearText, fmt.Sprintf("You are now wearing the %s.", it.Name))}, true
	case in.MatchVerb(unwearVerbs):
		if !w.Worn {
			return Positive{Message: "You aren't wearing that."}, true
		}
		w.Worn = false
		return Positive{Message: firstNonEmpty(w.RemoveText, fmt.Sprintf("You take off the %s.", it.Name))}, true
	}
	return nil, false
}
