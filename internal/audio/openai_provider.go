package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using OpenAI TTS.
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider.
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
	}, nil
}

// GenerateAudio synthesizes the text and writes it to outputFile. The
// response format follows the output file extension, defaulting to MP3.
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateSpeakableText(text); err != nil {
		return err
	}

	voice := p.config.OpenAIVoice
	if voice == "" {
		voice = RandomVoice()
	}

	req := openai.CreateSpeechRequest{
		Model: openai.SpeechModel(p.config.OpenAIModel),
		Input: text,
		Voice: openai.SpeechVoice(voice),
		Speed: p.config.OpenAISpeed,
	}

	if p.config.OpenAIInstruction != "" && p.config.OpenAIModel == "gpt-4o-mini-tts" {
		req.Instructions = p.config.OpenAIInstruction
	}

	ext := strings.ToLower(filepath.Ext(outputFile))
	switch ext {
	case ".mp3":
		req.ResponseFormat = openai.SpeechResponseFormatMp3
	case ".wav":
		req.ResponseFormat = openai.SpeechResponseFormatWav
	case ".opus":
		req.ResponseFormat = openai.SpeechResponseFormatOpus
	default:
		req.ResponseFormat = openai.SpeechResponseFormatMp3
		if !strings.HasSuffix(outputFile, ".mp3") {
			outputFile += ".mp3"
		}
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, response)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}

	return nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks that the provider is configured. No test call is made;
// that would spend quota.
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// ValidateSpeakableText rejects input that would produce silence.
func ValidateSpeakableText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	for _, r := range text {
		if unicode.IsLetter(r) {
			return nil
		}
	}
	return fmt.Errorf("text contains no letters")
}
