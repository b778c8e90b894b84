package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/prompts"
	"github.com/jwebster45206/adventure-engine/pkg/textfilter"
)

var errEmptyNarration = errors.New("model returned no narration")

// LLMNarrator dresses up the engine's miss-match answers with model output.
type LLMNarrator struct {
	llm    LLMService
	story  string
	filter *textfilter.ProfanityFilter
	logger *slog.Logger
}

var _ engine.Narrator = (*LLMNarrator)(nil)

// NewLLMNarrator narrates for storyTitle. Ratings of PG-13 and below run
// the model's text through the profanity filter.
func NewLLMNarrator(llm LLMService, storyTitle, rating string, logger *slog.Logger) *LLMNarrator {
	n := &LLMNarrator{llm: llm, story: storyTitle, logger: logger}
	if textfilter.ShouldFilterContent(rating) {
		n.filter = textfilter.NewProfanityFilter()
	}
	return n
}

func (n *LLMNarrator) Narrate(ctx context.Context, s engine.Situation) (string, error) {
	messages, err := prompts.New().WithStory(n.story).WithSituation(s).Build()
	if err != nil {
		return "", fmt.Errorf("failed to build narration prompt: %w", err)
	}

	resp, err := n.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to narrate: %w", err)
	}

	text := strings.TrimSpace(resp.Message)
	if text == "" || text == msgNoResponse {
		return "", errEmptyNarration
	}
	if n.filter != nil && n.filter.ContainsProfanity(text) {
		n.logger.Debug("Filtered narration", "provider", n.llm.Provider())
		text = n.filter.FilterText(text)
	}
	return text, nil
}
