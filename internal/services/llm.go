package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwebster45206/science-santa/pkg/chat"
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 400
)

// ErrMissingAPIKey is matched by every MissingKeyError.
var ErrMissingAPIKey = errors.New("API key not found")

// LLMService defines the interface for interacting with the LLM API.
// Complete returns the raw text of the model's reply; interpreting it is
// the caller's job.
type LLMService interface {
	Complete(ctx context.Context, req chat.CompletionRequest) (string, error)

	// Name identifies the provider in logs
	Name() string
}

// MissingKeyError reports an absent credential. It is returned before any
// network I/O.
type MissingKeyError struct {
	Provider string
	EnvVar   string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s API key not found. Please set %s in your .env file.", e.Provider, e.EnvVar)
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingAPIKey
}

// APIError is a non-200 answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}
