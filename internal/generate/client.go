package generate

import (
	"context"
	"fmt"
)

// Client is the raw JSON-generation backend behind the Generator.
type Client interface {
	// GenerateJSON sends the prompt and returns the model's response body,
	// expected to be a single JSON object.
	GenerateJSON(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name.
	Name() string
}

// Config holds generation backend configuration.
type Config struct {
	Provider string // "openai" or "gemini"
	Model    string

	OpenAIKey string
	GeminiKey string
}

// DefaultConfig returns default generation configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: "openai",
		Model:    "gpt-4o",
	}
}

// NewClient creates the generation backend selected by the configuration.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "openai":
		return NewOpenAIClient(config)
	case "gemini":
		return NewGeminiClient(ctx, config)
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", config.Provider)
	}
}
