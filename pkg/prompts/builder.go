package prompts

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/chat"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/intent"
)

// Builder constructs chat messages for one LLM call using a fluent interface.
// Exactly one of WithSituation (narration) or WithInput (parsing) must be set.
type Builder struct {
	story     string
	situation *engine.Situation
	input     string
	location  intent.LocationContext
	messages  []chat.ChatMessage
}

// New creates a prompt builder.
func New() *Builder {
	return &Builder{
		story:    "an adventure",
		messages: make([]chat.ChatMessage, 0, 2),
	}
}

// WithStory sets the title the narrator speaks for.
func (b *Builder) WithStory(title string) *Builder {
	if title != "" {
		b.story = title
	}
	return b
}

// WithSituation asks for narration of a miss.
func (b *Builder) WithSituation(s engine.Situation) *Builder {
	b.situation = &s
	return b
}

// WithInput asks for the intent behind the player's text.
func (b *Builder) WithInput(input string, loc intent.LocationContext) *Builder {
	b.input = input
	b.location = loc
	return b
}

// Build constructs and returns the message array for LLM consumption.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	switch {
	case b.situation != nil && b.input != "":
		return nil, errors.New("builder has both a situation and an input")
	case b.situation != nil:
		return b.buildNarration()
	case b.input != "":
		return b.buildIntent()
	}
	return nil, errors.New("situation or input is required")
}

func (b *Builder) buildNarration() ([]chat.ChatMessage, error) {
	system, err := render(narratorTmpl, struct{ Story string }{b.story})
	if err != nil {
		return nil, fmt.Errorf("error building narrator prompt: %w", err)
	}
	user, err := render(situationTmpl, b.situation)
	if err != nil {
		return nil, fmt.Errorf("error building situation prompt: %w", err)
	}
	b.messages = append(b.messages[:0],
		chat.ChatMessage{Role: chat.ChatRoleSystem, Content: system},
		chat.ChatMessage{Role: chat.ChatRoleUser, Content: user},
	)
	return b.messages, nil
}

func (b *Builder) buildIntent() ([]chat.ChatMessage, error) {
	user, err := render(parseTmpl, struct {
		intent.LocationContext
		Input string
	}{b.location, b.input})
	if err != nil {
		return nil, fmt.Errorf("error building parse prompt: %w", err)
	}
	b.messages = append(b.messages[:0],
		chat.ChatMessage{Role: chat.ChatRoleSystem, Content: IntentSystemPrompt()},
		chat.ChatMessage{Role: chat.ChatRoleUser, Content: user},
	)
	return b.messages, nil
}
