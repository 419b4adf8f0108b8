// Package audio synthesizes the pronunciation MP3 attached to the daily
// email. Synthesis is best-effort: any failure here means the email ships
// without an attachment.
package audio

import (
	"context"
	"fmt"
	"math/rand"
)

// Provider defines the interface for text-to-speech providers. Providers
// are selected statically per configuration; there is no runtime discovery.
type Provider interface {
	// GenerateAudio synthesizes the text and saves it to the output file.
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name.
	Name() string

	// IsAvailable checks if the provider is properly configured.
	IsAvailable() error
}

// Config holds configuration for audio providers.
type Config struct {
	Provider     string // provider name, only "openai" is supported
	OutputFormat string // "mp3" or "wav"

	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // empty means a random voice per run
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // voice instructions for gpt-4o-mini-tts
}

// DefaultProviderConfig returns default configuration.
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "openai",
		OutputFormat:      "mp3",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAISpeed:       0.95,
		OpenAIInstruction: "Read the vocabulary digest slowly and clearly for a language learner. Pause briefly between entries.",
	}
}

// Voices are the OpenAI TTS voices a run may use.
var Voices = []string{"alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"}

// RandomVoice picks one of the available voices. Voice variety is cosmetic,
// so a plain PRNG is fine here.
func RandomVoice() string {
	return Voices[rand.Intn(len(Voices))]
}

// NewProvider creates the audio provider selected by the configuration.
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "openai":
		return NewOpenAIProvider(config)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}
