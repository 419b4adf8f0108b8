package audio

import (
	"strings"
	"testing"

	"github.com/bmihaylov/wordmail/internal/generate"
)

func TestValidateSpeakableText(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"resilient. She bounced back quickly.", false},
		{"", true},
		{"   ", true},
		{"123 !?", true},
		{"a", false},
	}

	for _, tt := range tests {
		err := ValidateSpeakableText(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSpeakableText(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	_, err := NewProvider(&Config{Provider: "espeak"})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewProvider_OpenAIRequiresKey(t *testing.T) {
	_, err := NewProvider(&Config{Provider: "openai"})
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestRandomVoice_ReturnsKnownVoice(t *testing.T) {
	for i := 0; i < 50; i++ {
		voice := RandomVoice()
		found := false
		for _, v := range Voices {
			if v == voice {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("RandomVoice returned unknown voice %q", voice)
		}
	}
}

func TestBuildScript(t *testing.T) {
	analysis := &generate.Analysis{Items: []generate.Item{
		{
			SourceText:     "resilient",
			Category:       generate.CategoryAdjective,
			ExamplesSource: []string{"She bounced back quickly.", "The team proved resilient."},
		},
		{
			SourceText: "spill the beans",
			Category:   generate.CategoryExpression,
		},
	}}

	script := BuildScript(analysis)

	if !strings.Contains(script, "resilient.") {
		t.Errorf("script missing entry: %q", script)
	}
	if !strings.Contains(script, "She bounced back quickly.") {
		t.Errorf("script missing example: %q", script)
	}
	if !strings.Contains(script, " ... spill the beans.") {
		t.Errorf("script missing pause before second entry: %q", script)
	}
	if err := ValidateSpeakableText(script); err != nil {
		t.Errorf("script not speakable: %v", err)
	}
}

func TestBuildScript_EmptyAnalysis(t *testing.T) {
	script := BuildScript(&generate.Analysis{})
	if script != "" {
		t.Errorf("expected empty script, got %q", script)
	}
}

func TestNewProvider_OpenAIName(t *testing.T) {
	provider, err := NewProvider(&Config{Provider: "openai", OpenAIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	// The name identifies the provider in the startup log.
	if provider.Name() != "openai" {
		t.Errorf("Name() = %q, want openai", provider.Name())
	}
}
