package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jwebster45206/science-santa/pkg/chat"
)

const geminiModelRole = "model"

// GeminiService implements LLMService for Google Gemini.
type GeminiService struct {
	apiKey    string
	modelName string
	opts      []option.ClientOption
	timeout   time.Duration
	logger    *slog.Logger
}

func NewGeminiService(apiKey, modelName string, logger *slog.Logger, opts ...option.ClientOption) *GeminiService {
	return &GeminiService{
		apiKey:    apiKey,
		modelName: modelName,
		opts:      opts,
		logger:    logger,
	}
}

// WithTimeout bounds each Complete call. Zero leaves the caller's context
// as the only limit.
func (g *GeminiService) WithTimeout(d time.Duration) *GeminiService {
	g.timeout = d
	return g
}

func (g *GeminiService) Name() string {
	return "gemini"
}

// Complete replays the earlier turns as chat history and sends the final
// user turn. The client lives for a single call.
func (g *GeminiService) Complete(ctx context.Context, cr chat.CompletionRequest) (string, error) {
	if g.apiKey == "" {
		return "", &MissingKeyError{Provider: "Gemini", EnvVar: "GEMINI_API_KEY"}
	}
	if err := cr.Validate(); err != nil {
		return "", fmt.Errorf("invalid completion request: %w", err)
	}

	history, last, err := splitGeminiTurns(cr.Messages)
	if err != nil {
		return "", err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)...)
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer func() { _ = client.Close() }()

	model := client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(cr.SystemPrompt)}}
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(DefaultTemperature)
	model.SetMaxOutputTokens(DefaultMaxTokens)

	session := model.StartChat()
	session.History = history

	g.logger.Debug("Sending Gemini completion request",
		"model", g.modelName,
		"history_count", len(history))

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// splitGeminiTurns maps assistant turns to Gemini's "model" role and peels
// off the final user turn, which is sent rather than replayed.
func splitGeminiTurns(messages []chat.ChatMessage) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("no messages provided")
	}
	last := messages[len(messages)-1]
	if last.Role != chat.ChatRoleUser {
		return nil, "", fmt.Errorf("final message must come from the user, got %q", last.Role)
	}

	history := make([]*genai.Content, 0, len(messages)-1)
	for _, m := range messages[:len(messages)-1] {
		role := chat.ChatRoleUser
		if m.Role == chat.ChatRoleAgent {
			role = geminiModelRole
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return history, last.Content, nil
}
