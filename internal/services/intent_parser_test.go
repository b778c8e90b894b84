package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentParser_Parse(t *testing.T) {
	const input = "please do the thing"

	tests := []struct {
		name  string
		reply string
		want  intent.Intent
	}{
		{
			name:  "move",
			reply: `{"kind":"move","direction":"N"}`,
			want:  intent.Move{Direction: "north"},
		},
		{
			name:  "simple",
			reply: `{"kind":"simple","verb":"Open","noun":" mailbox "}`,
			want:  intent.Simple{Verb: "open", Noun: "mailbox", Original: input},
		},
		{
			name:  "multi noun",
			reply: `{"kind":"multi_noun","verb":"put","noun_one":"leaflet","preposition":"in","noun_two":"mailbox"}`,
			want:  intent.MultiNoun{Verb: "put", NounOne: "leaflet", Preposition: "in", NounTwo: "mailbox", Original: input},
		},
		{
			name:  "global",
			reply: `{"kind":"global","command":"inventory"}`,
			want:  intent.Global{Command: "inventory"},
		},
		{
			name:  "enter",
			reply: `{"kind":"enter_sub","noun":"boat"}`,
			want:  intent.EnterSub{Noun: "boat"},
		},
		{
			name:  "exit",
			reply: `{"kind":"exit_sub"}`,
			want:  intent.ExitSub{},
		},
		{
			name:  "fenced reply",
			reply: "```json\n{\"kind\":\"move\",\"direction\":\"up\"}\n```",
			want:  intent.Move{Direction: "up"},
		},
		{
			name:  "bad direction",
			reply: `{"kind":"move","direction":"sideways"}`,
			want:  intent.Unrecognized{Input: input},
		},
		{
			name:  "simple missing noun",
			reply: `{"kind":"simple","verb":"open"}`,
			want:  intent.Unrecognized{Input: input},
		},
		{
			name:  "multi noun missing target",
			reply: `{"kind":"multi_noun","verb":"put","noun_one":"leaflet","preposition":"in"}`,
			want:  intent.Unrecognized{Input: input},
		},
		{
			name:  "unknown kind",
			reply: `{"kind":"teleport"}`,
			want:  intent.Unrecognized{Input: input},
		},
		{
			name:  "malformed",
			reply: `I think the player wants to open something`,
			want:  intent.Unrecognized{Input: input},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := NewMockLLMAPI()
			llm.SetJSONResponse(tt.reply)
			p := NewIntentParser(llm, testLogger())

			got, err := p.Parse(context.Background(), input, intent.LocationContext{Name: "West of House"}, "sess")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntentParser_ProviderFailure(t *testing.T) {
	llm := NewMockLLMAPI()
	llm.SetChatJSONError(errors.New("503"))
	p := NewIntentParser(llm, testLogger())

	got, err := p.Parse(context.Background(), "open mailbox", intent.LocationContext{}, "sess")
	require.NoError(t, err)
	assert.Equal(t, intent.Unrecognized{Input: "open mailbox"}, got)
}

func TestIntentParser_SendsLocationContext(t *testing.T) {
	llm := NewMockLLMAPI()
	p := NewIntentParser(llm, testLogger())

	loc := intent.LocationContext{Name: "Kitchen", Exits: []string{"west"}, Nouns: []string{"brown sack"}}
	_, err := p.Parse(context.Background(), "grab the bag", loc, "sess")
	require.NoError(t, err)

	_, calls := llm.GetCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0][1].Content, "Visible: brown sack")
	assert.Contains(t, calls[0][1].Content, "Command: grab the bag")
}
