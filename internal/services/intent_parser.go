package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/jwebster45206/adventure-engine/pkg/parser"
	"github.com/jwebster45206/adventure-engine/pkg/prompts"
)

// IntentParser asks the LLM for a JSON intent. Anything it cannot use,
// including provider failures, becomes intent.Unrecognized.
type IntentParser struct {
	llm    LLMService
	logger *slog.Logger
}

var _ intent.Parser = (*IntentParser)(nil)

func NewIntentParser(llm LLMService, logger *slog.Logger) *IntentParser {
	return &IntentParser{llm: llm, logger: logger}
}

// wireIntent is the JSON object the model is asked to produce.
type wireIntent struct {
	Kind        string `json:"kind"`
	Direction   string `json:"direction"`
	Verb        string `json:"verb"`
	Noun        string `json:"noun"`
	NounOne     string `json:"noun_one"`
	Preposition string `json:"preposition"`
	NounTwo     string `json:"noun_two"`
	Command     string `json:"command"`
}

func (p *IntentParser) Parse(ctx context.Context, input string, loc intent.LocationContext, sessionID string) (intent.Intent, error) {
	unrecognized := intent.Unrecognized{Input: input}

	messages, err := prompts.New().WithInput(input, loc).Build()
	if err != nil {
		p.logger.Warn("Failed to build intent prompt", "game_state_id", sessionID, "error", err)
		return unrecognized, nil
	}

	resp, err := p.llm.ChatJSON(ctx, messages)
	if err != nil {
		p.logger.Warn("LLM intent parse failed", "game_state_id", sessionID, "provider", p.llm.Provider(), "error", err)
		return unrecognized, nil
	}

	var w wireIntent
	if err := json.Unmarshal([]byte(extractJSON(resp.Message)), &w); err != nil {
		p.logger.Warn("LLM returned malformed intent", "game_state_id", sessionID, "reply", resp.Message, "error", err)
		return unrecognized, nil
	}

	in := w.toIntent(input)
	p.logger.Debug("Parsed intent", "game_state_id", sessionID, "input", input, "kind", in.Kind())
	return in, nil
}

// toIntent validates the wire object. Missing required fields make it Unrecognized.
func (w wireIntent) toIntent(input string) intent.Intent {
	clean := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	verb, noun := clean(w.Verb), clean(w.Noun)

	switch clean(w.Kind) {
	case string(intent.KindMove):
		if dir, ok := parser.Direction(clean(w.Direction)); ok {
			return intent.Move{Direction: dir}
		}
	case string(intent.KindSimple):
		if verb != "" && noun != "" {
			return intent.Simple{Verb: verb, Noun: noun, Original: input}
		}
	case string(intent.KindMultiNoun):
		one, prep, two := clean(w.NounOne), clean(w.Preposition), clean(w.NounTwo)
		if verb != "" && one != "" && prep != "" && two != "" {
			return intent.MultiNoun{Verb: verb, NounOne: one, Preposition: prep, NounTwo: two, Original: input}
		}
	case string(intent.KindGlobal):
		if cmd := clean(w.Command); cmd != "" {
			return intent.Global{Command: cmd}
		}
	case string(intent.KindEnterSub):
		if noun != "" {
			return intent.EnterSub{Noun: noun}
		}
	case string(intent.KindExitSub):
		return intent.ExitSub{Noun: noun}
	}
	return intent.Unrecognized{Input: input}
}
