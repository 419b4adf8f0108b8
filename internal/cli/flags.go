package cli

import (
	"os"
	"path/filepath"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	StateDir   string
	WordList   string
	Quota      int
	DryRun     bool
	SkipAudio  bool
	ListModels bool
	Archive    bool

	// Logging flags
	LogLevel  string
	LogFormat string

	// Generation flags
	GenProvider string
	GenModel    string

	// Translation flags
	TranslateModel string

	// OpenAI TTS flags
	TTSModel       string
	TTSVoice       string
	TTSSpeed       float64
	TTSInstruction string

	// SMTP flags
	SMTPHost string
	SMTPPort int
	SMTPFrom string
	SMTPTo   string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	home, _ := os.UserHomeDir()
	stateDir := filepath.Join(home, ".local", "state", "wordmail")

	return &Flags{
		StateDir:       stateDir,
		Quota:          10,
		LogLevel:       "info",
		LogFormat:      "text",
		GenProvider:    "openai",
		GenModel:       "gpt-4o",
		TranslateModel: "gpt-4o-mini",
		TTSModel:       "gpt-4o-mini-tts",
		TTSSpeed:       0.95,
		SMTPPort:       587,
	}
}
