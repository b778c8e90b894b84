package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSystem(t *testing.T) {
	tests := []struct {
		name       string
		messages   []ChatMessage
		wantSystem string
		wantRest   int
	}{
		{
			name: "single system message",
			messages: []ChatMessage{
				{Role: ChatRoleSystem, Content: "You narrate a text adventure."},
				{Role: ChatRoleUser, Content: "dance"},
			},
			wantSystem: "You narrate a text adventure.",
			wantRest:   1,
		},
		{
			name: "multiple system messages",
			messages: []ChatMessage{
				{Role: ChatRoleSystem, Content: "You narrate a text adventure."},
				{Role: ChatRoleUser, Content: "dance"},
				{Role: ChatRoleSystem, Content: "Be concise."},
				{Role: ChatRoleAgent, Content: "You dance."},
			},
			wantSystem: "You narrate a text adventure.\n\nBe concise.",
			wantRest:   2,
		},
		{
			name: "no system messages",
			messages: []ChatMessage{
				{Role: ChatRoleUser, Content: "dance"},
			},
			wantSystem: "",
			wantRest:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, rest := SplitSystem(tt.messages)
			assert.Equal(t, tt.wantSystem, system)
			assert.Len(t, rest, tt.wantRest)
			for _, msg := range rest {
				assert.NotEqual(t, ChatRoleSystem, msg.Role)
			}
		})
	}
}
