package engine

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/textfilter"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// candidates is the item pool nouns are matched against. In the dark only
// what the player carries can be found.
func (e *Engine) candidates(g *Game) []*world.Item {
	visible := g.World.Visible(g.State.Location)
	if !g.Dark() {
		return visible
	}
	carried := visible[:0:0]
	for _, it := range visible {
		if g.World.Carrying(it.ID) {
			carried = append(carried, it)
		}
	}
	return carried
}

// match finds the items a noun refers to. A single precise match wins over
// any number of generic ones; otherwise every match is a candidate.
func (e *Engine) match(g *Game, noun string) []*world.Item {
	var matches, precise []*world.Item
	for _, it := range e.candidates(g) {
		if !it.MatchesNoun(noun) {
			continue
		}
		matches = append(matches, it)
		if it.MatchesPrecisely(noun) {
			precise = append(precise, it)
		}
	}
	if len(precise) > 0 && len(precise) < len(matches) {
		return precise
	}
	return matches
}

// resolveNoun returns the single item noun refers to, or the result to hand
// back instead: a miss or a disambiguation built from template, in which %s
// stands for the chosen item's name.
func (e *Engine) resolveNoun(g *Game, noun, template string) (*world.Item, Result) {
	matches := e.match(g, noun)
	switch len(matches) {
	case 0:
		if g.Dark() {
			return nil, Positive{Message: textTooDark}
		}
		return nil, NoNounMatch{Noun: noun}
	case 1:
		return matches[0], nil
	}
	return nil, disambiguate(matches, template)
}

func disambiguate(items []*world.Item, template string) Disambiguation {
	choices := make(map[string]string, len(items))
	names := make([]string, 0, len(items))
	for _, it := range items {
		answer := strings.ToLower(it.Name)
		choices[answer] = fmt.Sprintf(template, answer)
		names = append(names, "the "+it.Name)
	}
	return Disambiguation{
		Prompt:  fmt.Sprintf("Which do you mean, %s?", textfilter.JoinOr(names)),
		Choices: choices,
	}
}

// pickChoice maps a reply to a pending disambiguation onto its replacement
// input. The reply may be the full answer or any part of exactly one answer.
func pickChoice(choices map[string]string, reply string) (string, bool) {
	reply = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(reply)), "the ")
	if reply == "" {
		return "", false
	}
	if full, ok := choices[reply]; ok {
		return full, true
	}
	var found string
	hits := 0
	for answer, full := range choices {
		if containsWords(answer, reply) {
			found = full
			hits++
		}
	}
	return found, hits == 1
}

func containsWords(answer, reply string) bool {
	a := " " + answer + " "
	return strings.Contains(a, " "+reply+" ")
}
