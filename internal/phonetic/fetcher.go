package phonetic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Fetcher handles fetching IPA transcriptions for English words
type Fetcher struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewFetcher creates a new phonetic transcription fetcher
func NewFetcher(apiKey string) *Fetcher {
	return &Fetcher{
		apiKey: apiKey,
		model:  openai.GPT4oMini,
		client: openai.NewClient(apiKey),
	}
}

// Fetch returns the IPA transcription of a word or short expression, for
// example "/ɪɡˈzæmpəl/". The result is a single line without explanations.
func (f *Fetcher) Fetch(ctx context.Context, word string) (string, error) {
	if f.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an English pronunciation reference. Reply with the IPA transcription only, enclosed in slashes, with stress marks. No explanations, no extra text.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("IPA transcription (General American) of: %s", word),
			},
		},
		Temperature: 0.0,
		MaxTokens:   60,
	}

	resp, err := f.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}

	transcription := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Some models wrap the answer in quotes or add a trailing period.
	transcription = strings.Trim(transcription, "\"'.")
	if transcription == "" || strings.ContainsAny(transcription, "\n") {
		return "", fmt.Errorf("unexpected transcription format: %q", transcription)
	}

	return transcription, nil
}
