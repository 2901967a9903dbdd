package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jwebster45206/science-santa/pkg/chat"
)

// OpenRouterService implements LLMService for OpenRouter's OpenAI-compatible
// chat completions endpoint.
type OpenRouterService struct {
	apiKey     string
	baseURL    string
	modelName  string
	referer    string
	title      string
	httpClient *http.Client
	logger     *slog.Logger
}

// OpenRouterConfig holds the settings for NewOpenRouterService.
type OpenRouterConfig struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Referer   string // sent as HTTP-Referer for attribution
	Title     string // sent as X-Title
	Timeout   time.Duration
}

type OpenRouterResponseFormat struct {
	Type string `json:"type"`
}

// OpenRouterChatRequest represents the request structure for chat completions
type OpenRouterChatRequest struct {
	Model          string                    `json:"model"`
	Messages       []chat.ChatMessage        `json:"messages"`
	Temperature    float64                   `json:"temperature"`
	MaxTokens      int                       `json:"max_tokens"`
	Stream         bool                      `json:"stream"`
	ResponseFormat *OpenRouterResponseFormat `json:"response_format,omitempty"`
}

// OpenRouterChatChoice represents a single choice in the response
type OpenRouterChatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// OpenRouterChatResponse represents the response structure for chat completions
type OpenRouterChatResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []OpenRouterChatChoice `json:"choices"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

// NewOpenRouterService creates a new OpenRouter service
func NewOpenRouterService(cfg OpenRouterConfig, logger *slog.Logger) *OpenRouterService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenRouterService{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		modelName: cfg.ModelName,
		referer:   cfg.Referer,
		title:     cfg.Title,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (o *OpenRouterService) Name() string {
	return "openrouter"
}

// Complete sends the system prompt and turns with JSON mode forced on.
func (o *OpenRouterService) Complete(ctx context.Context, cr chat.CompletionRequest) (string, error) {
	if o.apiKey == "" {
		return "", &MissingKeyError{Provider: "OpenRouter", EnvVar: "OPENROUTER_API_KEY"}
	}
	if err := cr.Validate(); err != nil {
		return "", fmt.Errorf("invalid completion request: %w", err)
	}

	orReq := OpenRouterChatRequest{
		Model:          o.modelName,
		Messages:       cr.WithSystem(),
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
		Stream:         false,
		ResponseFormat: &OpenRouterResponseFormat{Type: "json_object"},
	}

	reqBody, err := json.Marshal(orReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if o.referer != "" {
		req.Header.Set("HTTP-Referer", o.referer)
	}
	if o.title != "" {
		req.Header.Set("X-Title", o.title)
	}

	o.logger.Debug("Sending OpenRouter completion request",
		"model", o.modelName,
		"message_count", len(orReq.Messages))

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Provider: "OpenRouter", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var orResp OpenRouterChatResponse
	if err := json.Unmarshal(body, &orResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if orResp.Error != nil {
		return "", fmt.Errorf("API error: %s", orResp.Error.Message)
	}

	if len(orResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from API")
	}

	o.logger.Debug("OpenRouter completion received",
		"model", orResp.Model,
		"finish_reason", orResp.Choices[0].FinishReason,
		"completion_tokens", orResp.Usage.CompletionTokens)

	return orResp.Choices[0].Message.Content, nil
}
