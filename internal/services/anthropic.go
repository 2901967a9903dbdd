package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jwebster45206/science-santa/pkg/chat"
)

// AnthropicService implements LLMService for Anthropic Claude
type AnthropicService struct {
	apiKey    string
	modelName string
	client    *anthropic.Client
	logger    *slog.Logger
}

// NewAnthropicService builds a Claude client. Extra request options are
// appended after the defaults, so tests can point it at a local server.
func NewAnthropicService(apiKey, modelName string, timeout time.Duration, logger *slog.Logger, opts ...option.RequestOption) *AnthropicService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(0),
	}
	return &AnthropicService{
		apiKey:    apiKey,
		modelName: modelName,
		client:    anthropic.NewClient(append(base, opts...)...),
		logger:    logger,
	}
}

func (a *AnthropicService) Name() string {
	return "anthropic"
}

// Complete sends the turns to the Messages API. The system prompt travels
// in its own field; there is no JSON mode, so the reply format rests on
// the prompt and the extractor.
func (a *AnthropicService) Complete(ctx context.Context, cr chat.CompletionRequest) (string, error) {
	if a.apiKey == "" {
		return "", &MissingKeyError{Provider: "Anthropic", EnvVar: "ANTHROPIC_API_KEY"}
	}
	if err := cr.Validate(); err != nil {
		return "", fmt.Errorf("invalid completion request: %w", err)
	}

	a.logger.Debug("Sending Anthropic completion request",
		"model", a.modelName,
		"message_count", len(cr.Messages))

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.F(anthropic.Model(a.modelName)),
		MaxTokens:   anthropic.F(int64(DefaultMaxTokens)),
		Temperature: anthropic.F(DefaultTemperature),
		System: anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(cr.SystemPrompt),
		}),
		Messages: anthropic.F(toAnthropicMessages(cr.Messages)),
	})
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("empty response from claude")
	}

	var sb strings.Builder
	for _, block := range message.Content {
		sb.WriteString(block.Text)
	}

	a.logger.Debug("Anthropic completion received",
		"stop_reason", message.StopReason,
		"output_tokens", message.Usage.OutputTokens)

	return sb.String(), nil
}

func toAnthropicMessages(messages []chat.ChatMessage) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == chat.ChatRoleAgent {
			params = append(params, anthropic.NewAssistantMessage(block))
			continue
		}
		params = append(params, anthropic.NewUserMessage(block))
	}
	return params
}
