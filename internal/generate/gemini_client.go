package generate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements Client using the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini generation backend.
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  config.Model,
	}, nil
}

// GenerateJSON sends the prompt and returns the raw response content.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.3)
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(systemPrompt+"\n\n"+prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      &temperature,
		})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no response from Gemini")
	}

	return cleanJSONBlock(text), nil
}

// Name returns the provider name.
func (c *GeminiClient) Name() string {
	return "gemini"
}

// cleanJSONBlock removes markdown code fences some models wrap around JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
