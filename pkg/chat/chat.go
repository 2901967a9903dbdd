package chat

import (
	"fmt"
)

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Santa
	ChatRoleSystem = "system"    // System prompt
)

// ChatMessage represents a single role-tagged turn sent to the LLM.
// The shape follows the OpenAI-style chat completions API.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// CompletionRequest is everything a provider needs for one completion:
// the system prompt and the ordered conversation turns, oldest first.
// The last turn is always the player's newly selected line.
type CompletionRequest struct {
	SystemPrompt string        `json:"system_prompt"`
	Messages     []ChatMessage `json:"messages"`
}

// Validate checks that the request can be sent to a provider.
func (r *CompletionRequest) Validate() error {
	if r.SystemPrompt == "" {
		return fmt.Errorf("system prompt cannot be empty")
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("no messages provided")
	}
	for i, msg := range r.Messages {
		switch msg.Role {
		case ChatRoleUser, ChatRoleAgent:
		default:
			return fmt.Errorf("message %d has unsupported role %q", i, msg.Role)
		}
	}
	return nil
}

// WithSystem returns the messages with the system prompt prepended as a
// system turn, for providers that take the prompt inline.
func (r *CompletionRequest) WithSystem() []ChatMessage {
	out := make([]ChatMessage, 0, len(r.Messages)+1)
	out = append(out, ChatMessage{Role: ChatRoleSystem, Content: r.SystemPrompt})
	out = append(out, r.Messages...)
	return out
}
