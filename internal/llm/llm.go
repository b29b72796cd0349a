// Package llm generates repository overviews through a pluggable
// text-generation provider.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Client is the minimal surface the extraction layer needs from a
// text-generation backend.
type Client interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Config selects and parameterizes a provider.
type Config struct {
	Provider string // "gemini" or "openai"
	APIKey   string
	Model    string
	BaseURL  string // OpenAI-compatible endpoints only
}

// New builds a client for the configured provider.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
