package prompts

import (
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/chat"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build_RequiresOneMode(t *testing.T) {
	_, err := New().Build()
	assert.Error(t, err)

	_, err = New().
		WithSituation(engine.Situation{Kind: engine.ResultNoVerbMatch, Verb: "dance"}).
		WithInput("dance", intent.LocationContext{}).
		Build()
	assert.Error(t, err)
}

func TestBuilder_Build_Narration(t *testing.T) {
	tests := []struct {
		name      string
		situation engine.Situation
		want      []string
	}{
		{
			name: "verb with noun",
			situation: engine.Situation{
				Kind:     engine.ResultNoVerbMatch,
				Verb:     "kick",
				Noun:     "mailbox",
				Input:    "kick the mailbox",
				Location: "West of House",
				Fallback: "You can't kick the small mailbox.",
			},
			want: []string{
				"Location: West of House",
				`The player typed: "kick the mailbox"`,
				`"mailbox" is here, but nothing happens when the player tries to kick it.`,
				`The engine's plain answer: "You can't kick the small mailbox."`,
			},
		},
		{
			name: "bare verb",
			situation: engine.Situation{
				Kind:     engine.ResultNoVerbMatch,
				Verb:     "dance",
				Location: "Kitchen",
				Fallback: "I don't know how to do that.",
			},
			want: []string{`Nothing here responds to "dance".`},
		},
		{
			name: "missing noun",
			situation: engine.Situation{
				Kind:     engine.ResultNoNounMatch,
				Verb:     "take",
				Noun:     "unicorn",
				Location: "Kitchen",
				Fallback: "You can't see any unicorn here.",
			},
			want: []string{`There is no "unicorn" the player can use here.`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, err := New().WithStory("ZORK I").WithSituation(tt.situation).Build()
			require.NoError(t, err)
			require.Len(t, msgs, 2)
			assert.Equal(t, chat.ChatRoleSystem, msgs[0].Role)
			assert.Contains(t, msgs[0].Content, `narrator of "ZORK I"`)
			assert.Equal(t, chat.ChatRoleUser, msgs[1].Role)
			for _, w := range tt.want {
				assert.Contains(t, msgs[1].Content, w)
			}
		})
	}
}

func TestBuilder_Build_Intent(t *testing.T) {
	loc := intent.LocationContext{
		Name:  "West of House",
		Exits: []string{"north", "south"},
		Nouns: []string{"small mailbox"},
	}
	msgs, err := New().WithInput("peek inside the mailbox", loc).Build()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, IntentSystemPrompt(), msgs[0].Content)
	assert.Equal(t, "Location: West of House\nExits: north, south\nVisible: small mailbox\nCommand: peek inside the mailbox", msgs[1].Content)
}

func TestBuilder_Build_IntentNoContext(t *testing.T) {
	msgs, err := New().WithInput("xyzzy", intent.LocationContext{Name: "Cellar"}).Build()
	require.NoError(t, err)
	assert.Equal(t, "Location: Cellar\nCommand: xyzzy", msgs[1].Content)
}
