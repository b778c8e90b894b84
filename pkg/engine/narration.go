package engine

import (
	"context"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/intent"
)

// Situation describes a miss for a narrator to dress up.
type Situation struct {
	Kind     ResultKind `json:"kind"`
	Verb     string     `json:"verb,omitempty"`
	Noun     string     `json:"noun,omitempty"`
	Input    string     `json:"input,omitempty"`
	Location string     `json:"location"`
	// Fallback is the deterministic text used when narration fails.
	Fallback string `json:"fallback"`
}

// Narrator generates flavor text for NoVerbMatch and NoNounMatch results.
type Narrator interface {
	Narrate(ctx context.Context, s Situation) (string, error)
}

// NarratorFunc adapts a function to Narrator.
type NarratorFunc func(ctx context.Context, s Situation) (string, error)

func (f NarratorFunc) Narrate(ctx context.Context, s Situation) (string, error) {
	return f(ctx, s)
}

// enrich asks the narrator for flavor text, falling back to the result's own
// text on error, timeout or an empty reply.
func (e *Engine) enrich(ctx context.Context, g *Game, in intent.Intent, res Result) string {
	fallback := res.Text()
	if e.narrator == nil {
		return fallback
	}

	s := Situation{
		Kind:     res.Kind(),
		Location: g.Location().Name,
		Fallback: fallback,
	}
	switch r := res.(type) {
	case NoVerbMatch:
		s.Verb, s.Noun = r.Verb, r.Noun
	case NoNounMatch:
		s.Noun = r.Noun
	}
	switch v := in.(type) {
	case intent.Simple:
		s.Input = v.Original
		if s.Verb == "" {
			s.Verb = v.Verb
		}
	case intent.MultiNoun:
		s.Input = v.Original
		if s.Verb == "" {
			s.Verb = v.Verb
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.narrationTimeout)
	defer cancel()

	text, err := e.narrator.Narrate(ctx, s)
	if err != nil {
		e.logger.Warn("Narration failed, using fallback", "game_state_id", g.State.ID, "error", err)
		g.Warn("narration unavailable")
		return fallback
	}
	if text = strings.TrimSpace(text); text == "" {
		g.Warn("narration was empty")
		return fallback
	}
	return text
}
