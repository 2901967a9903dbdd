package prompts

import (
	"fmt"

	"github.com/jwebster45206/science-santa/pkg/chat"
	"github.com/jwebster45206/science-santa/pkg/session"
)

// DefaultHistoryLimit is how many stored messages are sent with each request.
const DefaultHistoryLimit = 10

// Builder constructs a completion request using a fluent interface.
// It separates prompt building from session state management.
type Builder struct {
	score        int
	history      []session.Message
	userMessage  string
	historyLimit int
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		historyLimit: DefaultHistoryLimit,
	}
}

// WithScore sets the jolliness the system prompt is written for.
func (b *Builder) WithScore(score int) *Builder {
	b.score = score
	return b
}

// WithHistory sets the stored conversation, oldest first.
func (b *Builder) WithHistory(history []session.Message) *Builder {
	b.history = history
	return b
}

// WithUserMessage sets the option text the player just picked.
func (b *Builder) WithUserMessage(message string) *Builder {
	b.userMessage = message
	return b
}

// WithHistoryLimit sets the chat history window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Build returns the system prompt and the windowed, role-tagged turns
// followed by the player's selected line. Option text comes from the model
// unchecked, so an empty line is still sent as the final user turn.
func (b *Builder) Build() (chat.CompletionRequest, error) {
	if b.historyLimit < 0 {
		return chat.CompletionRequest{}, fmt.Errorf("history limit cannot be negative")
	}

	window := b.history
	if len(window) > b.historyLimit {
		window = window[len(window)-b.historyLimit:]
	}

	messages := make([]chat.ChatMessage, 0, len(window)+1)
	for _, msg := range window {
		messages = append(messages, chat.ChatMessage{
			Role:    roleFor(msg.Speaker),
			Content: msg.Text,
		})
	}
	messages = append(messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: b.userMessage,
	})

	return chat.CompletionRequest{
		SystemPrompt: SystemPrompt(b.score),
		Messages:     messages,
	}, nil
}

func roleFor(speaker session.Speaker) string {
	if speaker == session.SpeakerUser {
		return chat.ChatRoleUser
	}
	return chat.ChatRoleAgent
}

// BuildRequest is a convenience function for the common case.
func BuildRequest(score int, history []session.Message, message string, historyLimit int) (chat.CompletionRequest, error) {
	return New().
		WithScore(score).
		WithHistory(history).
		WithUserMessage(message).
		WithHistoryLimit(historyLimit).
		Build()
}
