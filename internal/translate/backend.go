package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Backend translates a batch of sentences between two languages. A nil
// string in the result means the backend could not translate that slot.
type Backend interface {
	TranslateBatch(ctx context.Context, sentences []string, sourceLang, targetLang string) ([]string, error)
	Name() string
}

// OpenAIBackend implements Backend using the OpenAI chat completion API.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend creates a new OpenAI translation backend.
func NewOpenAIBackend(apiKey, model string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIBackend{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// TranslateBatch translates the sentences in order and returns a parallel
// list of translations.
func (b *OpenAIBackend) TranslateBatch(ctx context.Context, sentences []string, sourceLang, targetLang string) ([]string, error) {
	payload, err := json.Marshal(sentences)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	prompt := fmt.Sprintf(`Translate each sentence in the following JSON array from %s to %s.

%s

Respond with a JSON object of the form {"translations": [...]} where the array holds the translated sentences in the same order and with the same length as the input. Return only the JSON object.`,
		sourceLang, targetLang, string(payload))

	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a professional translator. You translate naturally and concisely, and you always answer with a single valid JSON object.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	var parsed struct {
		Translations []string `json:"translations"`
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse translation response: %w", err)
	}
	if len(parsed.Translations) != len(sentences) {
		return nil, fmt.Errorf("translation count mismatch: sent %d, got %d", len(sentences), len(parsed.Translations))
	}

	return parsed.Translations, nil
}

// Name returns the backend name.
func (b *OpenAIBackend) Name() string {
	return "openai"
}
