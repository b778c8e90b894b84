package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jwebster45206/adventure-engine/pkg/chat"
	"google.golang.org/api/option"
)

const (
	DefaultGeminiModel       = "gemini-2.5-flash"
	DefaultGeminiTemperature = 0.7
	DefaultGeminiMaxTokens   = 512

	geminiRoleUser  = "user"
	geminiRoleModel = "model"
)

// GeminiService implements LLMService for Google Gemini.
type GeminiService struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
}

func NewGeminiService(ctx context.Context, apiKey string, modelName string, logger *slog.Logger) (*GeminiService, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{client: client, modelName: modelName, logger: logger}, nil
}

func (g *GeminiService) Provider() string { return "gemini" }

func (g *GeminiService) Close() error {
	return g.client.Close()
}

func (g *GeminiService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	return g.generate(ctx, messages, false)
}

func (g *GeminiService) ChatJSON(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	resp, err := g.generate(ctx, messages, true)
	if err != nil {
		return nil, err
	}
	resp.Message = extractJSON(resp.Message)
	return resp, nil
}

// generate configures a model per call; GenerativeModel settings are not safe to share.
func (g *GeminiService) generate(ctx context.Context, messages []chat.ChatMessage, jsonMode bool) (*chat.ChatResponse, error) {
	system, conversation := chat.SplitSystem(messages)
	history, last, err := toGeminiContents(conversation)
	if err != nil {
		return nil, err
	}

	model := g.client.GenerativeModel(g.modelName)
	model.SetMaxOutputTokens(DefaultGeminiMaxTokens)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if jsonMode {
		model.SetTemperature(0)
		model.ResponseMIMEType = "application/json"
	} else {
		model.SetTemperature(DefaultGeminiTemperature)
	}

	session := model.StartChat()
	session.History = history
	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := candidateText(resp)
	if err != nil {
		return nil, err
	}
	return &chat.ChatResponse{Message: text, Model: g.modelName}, nil
}

// toGeminiContents converts a system-free conversation into chat history
// plus the final user turn.
func toGeminiContents(messages []chat.ChatMessage) ([]*genai.Content, *genai.Content, error) {
	if len(messages) == 0 {
		return nil, nil, errors.New("no messages to send")
	}
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := geminiRoleUser
		if msg.Role == chat.ChatRoleAgent {
			role = geminiRoleModel
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Content)}})
	}
	last := contents[len(contents)-1]
	if last.Role != geminiRoleUser {
		return nil, nil, errors.New("last message must come from the user")
	}
	return contents[:len(contents)-1], last, nil
}

func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no content returned from Gemini")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return msgNoResponse, nil
	}
	return b.String(), nil
}
