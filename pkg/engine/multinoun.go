package engine

import (
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

var (
	putVerbs    = []string{"put", "place", "insert", "stuff", "set", "drop", "hide"}
	putPreps    = []string{"in", "into", "inside", "on", "onto"}
	removeVerbs = []string{"take", "get", "remove", "grab", "pick up"}
	removePreps = []string{"from"}
	giveVerbs   = []string{"give", "offer", "hand", "feed"}
	givePreps   = []string{"to"}
)

// multiProcessor inspects both items by capability only. It reports false
// when the verb/preposition pair is not its own.
type multiProcessor func(e *Engine, g *Game, in intent.MultiNoun, a, b *world.Item) (Result, bool)

var multiProcessors = []multiProcessor{
	processPut,
	processTakeFrom,
	processGive,
	processAttackWith,
}

// multiNoun resolves "verb noun1 preposition noun2".
func (e *Engine) multiNoun(g *Game, in intent.MultiNoun) Result {
	g.State.LastNoun = ""

	if def := e.def.location(g.State.Location); def.RespondMulti != nil {
		if res, ok := def.RespondMulti(g, in); ok {
			return res
		}
	}

	a, resA := e.resolveNoun(g, in.NounOne, in.Verb+" %s "+in.Preposition+" "+in.NounTwo)
	b, resB := e.resolveNoun(g, in.NounTwo, in.Verb+" "+in.NounOne+" "+in.Preposition+" %s")
	missA, missB := isMiss(resA), isMiss(resB)

	switch {
	case missA && missB:
		if g.Dark() {
			return Positive{Message: textTooDark}
		}
		return NoNounMatch{
			Noun:    in.NounOne,
			Message: fmt.Sprintf("You can't see any %s or %s here.", in.NounOne, in.NounTwo),
		}
	case missB:
		if g.Dark() {
			return Positive{Message: textTooDark}
		}
		return NoNounMatch{Noun: in.NounTwo, Message: fmt.Sprintf("There is no %s here to %s the %s %s.", in.NounTwo, in.Verb, in.NounOne, in.Preposition)}
	case missA:
		if g.Dark() {
			return Positive{Message: textTooDark}
		}
		return NoNounMatch{Noun: in.NounOne, Message: fmt.Sprintf("You can't see any %s to %s %s the %s.", in.NounOne, in.Verb, in.Preposition, in.NounTwo)}
	}
	if resA != nil {
		return resA
	}
	if resB != nil {
		return resB
	}

	for _, p := range multiProcessors {
		if res, ok := p(e, g, in, a, b); ok {
			return res
		}
	}
	return NoVerbMatch{
		Verb:    in.Verb,
		Noun:    a.Name,
		Message: fmt.Sprintf("You can't %s the %s %s the %s.", in.Verb, a.Name, in.Preposition, b.Name),
	}
}

// isMiss reports whether a resolution failed to find anything at all.
func isMiss(r Result) bool {
	switch r.(type) {
	case NoNounMatch, Positive:
		return true
	}
	return false
}

func processPut(e *Engine, g *Game, in intent.MultiNoun, a, b *world.Item) (Result, bool) {
	if !in.MatchVerb(putVerbs) || !in.MatchPreposition(putPreps) || b.Container == nil {
		return nil, false
	}
	if a.ID == b.ID || g.World.Contains(a.ID, b.ID) {
		return Positive{Message: fmt.Sprintf("You can't put the %s inside itself.", a.Name)}, true
	}
	if !g.World.Carrying(a.ID) {
		return Positive{Message: fmt.Sprintf("You don't have the %s.", a.Name)}, true
	}
	if b.IsClosed() {
		return Positive{Message: fmt.Sprintf("The %s is closed.", b.Name)}, true
	}
	if a.Owner == world.InItem(b.ID) {
		return Positive{Message: fmt.Sprintf("The %s is already there.", a.Name)}, true
	}
	if !g.World.Fits(a.ID, b.ID) {
		return Positive{Message: "There's no room."}, true
	}
	g.World.Move(a.ID, world.InItem(b.ID))
	return Positive{Message: "Done."}, true
}

func processTakeFrom(e *Engine, g *Game, in intent.MultiNoun, a, b *world.Item) (Result, bool) {
	if !in.MatchVerb(removeVerbs) || !in.MatchPreposition(removePreps) || b.Container == nil {
		return nil, false
	}
	if a.Owner != world.InItem(b.ID) {
		return Positive{Message: fmt.Sprintf("The %s isn't in the %s.", a.Name, b.Name)}, true
	}
	if b.IsClosed() {
		return Positive{Message: fmt.Sprintf("The %s is closed.", b.Name)}, true
	}
	return Positive{Message: e.take(g, a)}, true
}

func processGive(e *Engine, g *Game, in intent.MultiNoun, gift, to *world.Item) (Result, bool) {
	if to.Recipient == nil || !in.MatchVerb(giveVerbs) || !in.MatchPreposition(givePreps) {
		return nil, false
	}
	r := to.Recipient
	if !g.World.Carrying(gift.ID) {
		return Positive{Message: fmt.Sprintf("You don't have the %s.", gift.Name)}, true
	}
	if !r.Wants(gift.ID) {
		return Positive{Message: firstNonEmpty(r.RefuseText, fmt.Sprintf("The %s refuses the %s.", to.Name, gift.Name))}, true
	}
	g.World.Remove(gift.ID)
	if r.AcceptFlag != "" {
		g.State.SetFlag(r.AcceptFlag, true)
	}
	g.AddPoints(r.Points)
	return Positive{Message: firstNonEmpty(r.AcceptText, fmt.Sprintf("The %s accepts the %s.", to.Name, gift.Name))}, true
}
