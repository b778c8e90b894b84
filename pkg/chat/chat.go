package chat

const (
	ChatRoleUser   = "user"      // player input
	ChatRoleAgent  = "assistant" // model output
	ChatRoleSystem = "system"    // instructions
)

// ChatMessage is a single message sent to an LLM provider. Providers that
// keep system text out of the message list (Anthropic, Gemini) split it off.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse is the text a provider produced for one request.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
	Model   string `json:"model,omitempty"`
}

// SplitSystem joins every system message into one prompt and returns the rest in order.
func SplitSystem(messages []ChatMessage) (string, []ChatMessage) {
	var system string
	rest := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role != ChatRoleSystem {
			rest = append(rest, msg)
			continue
		}
		if system != "" {
			system += "\n\n"
		}
		system += msg.Content
	}
	return system, rest
}
