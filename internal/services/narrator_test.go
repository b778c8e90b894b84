package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/chat"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var miss = engine.Situation{
	Kind:     engine.ResultNoVerbMatch,
	Verb:     "kick",
	Noun:     "mailbox",
	Input:    "kick mailbox",
	Location: "West of House",
	Fallback: "You can't kick the small mailbox.",
}

func TestLLMNarrator_Narrate(t *testing.T) {
	llm := NewMockLLMAPI()
	llm.SetChatResponse("  Your toe objects before the mailbox does.  ")
	n := NewLLMNarrator(llm, "ZORK I", "R", testLogger())

	text, err := n.Narrate(context.Background(), miss)
	require.NoError(t, err)
	assert.Equal(t, "Your toe objects before the mailbox does.", text)

	calls, _ := llm.GetCalls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0], 2)
	assert.Equal(t, chat.ChatRoleSystem, calls[0][0].Role)
	assert.Contains(t, calls[0][0].Content, "ZORK I")
	assert.Contains(t, calls[0][1].Content, "You can't kick the small mailbox.")
}

func TestLLMNarrator_Filter(t *testing.T) {
	tests := []struct {
		rating string
		want   string
	}{
		{"PG13", "Heck, that mailbox is sturdy."},
		{"R", "Hell, that mailbox is sturdy."},
	}

	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			llm := NewMockLLMAPI()
			llm.SetChatResponse("Hell, that mailbox is sturdy.")
			text, err := NewLLMNarrator(llm, "ZORK I", tt.rating, testLogger()).Narrate(context.Background(), miss)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestLLMNarrator_Errors(t *testing.T) {
	llm := NewMockLLMAPI()
	llm.SetChatError(errors.New("timeout"))
	_, err := NewLLMNarrator(llm, "ZORK I", "PG", testLogger()).Narrate(context.Background(), miss)
	assert.Error(t, err)

	llm.SetChatResponse(msgNoResponse)
	_, err = NewLLMNarrator(llm, "ZORK I", "PG", testLogger()).Narrate(context.Background(), miss)
	assert.ErrorIs(t, err, errEmptyNarration)
}
