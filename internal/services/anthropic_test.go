package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnthropicTestServer(t *testing.T, status int, body string, seen *AnthropicChatRequest) *AnthropicService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	svc := NewAnthropicService("test-key", "", testLogger())
	svc.baseURL = srv.URL
	return svc
}

func TestNewAnthropicService(t *testing.T) {
	svc := NewAnthropicService("key", "", testLogger())
	assert.Equal(t, DefaultAnthropicModel, svc.modelName)
	assert.Equal(t, anthropicBaseURL, svc.baseURL)
	assert.NotNil(t, svc.httpClient)

	svc = NewAnthropicService("key", "claude-test", testLogger())
	assert.Equal(t, "claude-test", svc.modelName)
}

func TestAnthropicService_Chat(t *testing.T) {
	var seen AnthropicChatRequest
	svc := newAnthropicTestServer(t, http.StatusOK, `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [
			{"type": "text", "text": "You twirl "},
			{"type": "text", "text": "gracefully."}
		],
		"usage": {"input_tokens": 10, "output_tokens": 4}
	}`, &seen)

	resp, err := svc.Chat(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: "You narrate."},
		{Role: chat.ChatRoleUser, Content: "dance"},
	})
	require.NoError(t, err)
	assert.Equal(t, "You twirl gracefully.", resp.Message)
	assert.Equal(t, "claude-test", resp.Model)

	assert.Equal(t, "You narrate.", seen.System)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, chat.ChatRoleUser, seen.Messages[0].Role)
	require.NotNil(t, seen.Temperature)
	assert.Equal(t, DefaultAnthropicTemperature, *seen.Temperature)
}

func TestAnthropicService_ChatJSON(t *testing.T) {
	var seen AnthropicChatRequest
	svc := newAnthropicTestServer(t, http.StatusOK, `{
		"content": [{"type": "text", "text": "`+"```json\\n{\\\"kind\\\":\\\"move\\\",\\\"direction\\\":\\\"north\\\"}\\n```"+`"}]
	}`, &seen)

	resp, err := svc.ChatJSON(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "go north"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"move","direction":"north"}`, resp.Message)
	require.NotNil(t, seen.Temperature)
	assert.Zero(t, *seen.Temperature)
}

func TestAnthropicService_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http status", http.StatusTooManyRequests, `{"error":{"type":"rate_limit_error","message":"slow down"}}`},
		{"api error", http.StatusOK, `{"error":{"type":"overloaded_error","message":"overloaded"}}`},
		{"bad json", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAnthropicTestServer(t, tt.status, tt.body, nil)
			_, err := svc.Chat(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hi"}})
			assert.Error(t, err)
		})
	}
}

func TestAnthropicService_EmptyContent(t *testing.T) {
	svc := newAnthropicTestServer(t, http.StatusOK, `{"content": []}`, nil)
	resp, err := svc.Chat(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, msgNoResponse, resp.Message)
}
