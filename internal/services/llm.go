package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/adventure-engine/internal/config"
	"github.com/jwebster45206/adventure-engine/pkg/chat"
)

const msgNoResponse = "(no response)"

// LLMService defines the interface for interacting with an LLM provider.
type LLMService interface {
	// Chat returns free-form narration.
	Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// ChatJSON asks for a single JSON object with deterministic sampling.
	ChatJSON(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// Provider names the backend for logs and health reports.
	Provider() string

	Close() error
}

// NewLLMService builds the provider named by cfg.LLMProvider. It returns
// nil, nil when no provider is configured.
func NewLLMService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (LLMService, error) {
	switch cfg.LLMProvider {
	case "", "none":
		return nil, nil
	case "anthropic":
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, logger), nil
	case "venice":
		return NewVeniceService(cfg.VeniceAPIKey, cfg.ModelName, logger), nil
	case "gemini":
		return NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.ModelName, logger)
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
}

// extractJSON pulls a JSON object out of a model reply that may be wrapped
// in markdown fences or preceded by prose.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		end := len(lines)
		if end > 1 && strings.HasPrefix(strings.TrimSpace(lines[end-1]), "```") {
			end--
		}
		text = strings.Join(lines[1:end], "\n")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return strings.TrimSpace(text)
	}
	return text[start : end+1]
}
