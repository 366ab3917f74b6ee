package generation

import (
	"context"
	"strings"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is a provider-neutral message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
	// ResponseSchema asks the provider for JSON matching the schema. Providers
	// without native support rely on the system instruction instead.
	ResponseSchema *Schema
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient performs exactly one completion call per Complete.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// dropLeadingAssistant removes assistant turns that precede the first user
// turn. Converse and Gemini chats must open with a user message, and a chat
// transcript opens with the widget greeting.
func dropLeadingAssistant(msgs []ChatMessage) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	seenUser := false
	for _, msg := range msgs {
		switch msg.Role {
		case ChatRoleUser:
			if strings.TrimSpace(msg.Content) != "" {
				seenUser = true
			}
		case ChatRoleAssistant:
			if !seenUser {
				continue
			}
		}
		out = append(out, msg)
	}
	return out
}
