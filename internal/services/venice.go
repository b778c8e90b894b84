package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/adventure-engine/pkg/chat"
)

const (
	veniceBaseURL = "https://api.venice.ai/api/v1"

	DefaultVeniceModel       = "llama-3.3-70b"
	DefaultVeniceTemperature = 0.7
	DefaultVeniceMaxTokens   = 512
)

// VeniceService implements LLMService for Venice AI
type VeniceService struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type VeniceResponseFormat struct {
	Type       string           `json:"type"`
	JSONSchema VeniceJSONSchema `json:"json_schema"`
}

type VeniceJSONSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type VeniceParameters struct {
	IncludeVeniceSystemPrompt bool   `json:"include_venice_system_prompt"`
	EnableWebSearch           string `json:"enable_web_search"`
}

// VeniceChatRequest represents the request structure for Venice AI chat completions
type VeniceChatRequest struct {
	Model            string                `json:"model"`
	Messages         []chat.ChatMessage    `json:"messages"`
	Temperature      float64               `json:"temperature"`
	MaxTokens        int                   `json:"max_tokens,omitempty"`
	Stream           bool                  `json:"stream"`
	ResponseFormat   *VeniceResponseFormat `json:"response_format,omitempty"`
	VeniceParameters VeniceParameters      `json:"venice_parameters"`
}

// VeniceChatChoice represents a single choice in the Venice AI response
type VeniceChatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// VeniceChatResponse represents the response structure for Venice AI chat completions
type VeniceChatResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []VeniceChatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewVeniceService creates a new Venice AI service
func NewVeniceService(apiKey string, modelName string, logger *slog.Logger) *VeniceService {
	if modelName == "" {
		modelName = DefaultVeniceModel
	}
	return &VeniceService{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   veniceBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

func (v *VeniceService) Provider() string { return "venice" }

func (v *VeniceService) Close() error { return nil }

// Chat generates narration using Venice AI
func (v *VeniceService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	return v.chatCompletion(ctx, messages, DefaultVeniceTemperature, nil)
}

// ChatJSON constrains the reply to the intent schema.
func (v *VeniceService) ChatJSON(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	resp, err := v.chatCompletion(ctx, messages, 0, intentResponseFormat())
	if err != nil {
		return nil, err
	}
	resp.Message = extractJSON(resp.Message)
	return resp, nil
}

func (v *VeniceService) chatCompletion(ctx context.Context, messages []chat.ChatMessage, temperature float64, format *VeniceResponseFormat) (*chat.ChatResponse, error) {
	veniceReq := VeniceChatRequest{
		Model:          v.modelName,
		Messages:       messages,
		Temperature:    temperature,
		MaxTokens:      DefaultVeniceMaxTokens,
		ResponseFormat: format,
		VeniceParameters: VeniceParameters{
			IncludeVeniceSystemPrompt: false,
			EnableWebSearch:           "off",
		},
	}

	reqBody, err := json.Marshal(veniceReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var veniceResp VeniceChatResponse
	if err := json.Unmarshal(body, &veniceResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if veniceResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", veniceResp.Error.Message)
	}
	if len(veniceResp.Choices) == 0 {
		return &chat.ChatResponse{Message: msgNoResponse, Model: veniceResp.Model}, nil
	}

	return &chat.ChatResponse{
		Message: veniceResp.Choices[0].Message.Content,
		Model:   veniceResp.Model,
	}, nil
}

// intentResponseFormat mirrors the wire shape the intent parser decodes.
func intentResponseFormat() *VeniceResponseFormat {
	str := map[string]any{"type": "string"}
	fields := []string{"kind", "direction", "verb", "noun", "noun_one", "preposition", "noun_two", "command"}
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f] = str
	}
	props["kind"] = map[string]any{
		"type": "string",
		"enum": []string{"move", "simple", "multi_noun", "global", "enter_sub", "exit_sub", "unrecognized"},
	}
	return &VeniceResponseFormat{
		Type: "json_schema",
		JSONSchema: VeniceJSONSchema{
			Name:   "player_intent",
			Strict: true,
			Schema: map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           props,
				"required":             fields,
			},
		},
	}
}
