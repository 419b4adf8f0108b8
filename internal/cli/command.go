package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bmihaylov/wordmail/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wordmail",
		Short: "Daily English vocabulary email dispatcher",
		Long: `wordmail sends one email per day with a batch of English vocabulary
words, each analyzed and translated to Bulgarian, with an optional
pronunciation audio attachment.

It keeps a persistent record of every word already sent, so rerunning
it after a crash or a delivery failure resumes the day's run instead
of picking new words or sending twice.

Examples:
  wordmail --words words.txt                 # Run today's dispatch
  wordmail --words words.txt --dry-run       # Build the email, print it, do not send
  wordmail --words words.txt --quota 5       # Smaller daily batch`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wordmail.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.WordList, "words", "w", "", "Vocabulary file (one word or expression per line)")
	cmd.Flags().StringVar(&flags.StateDir, "state-dir", flags.StateDir, "Directory for the state and translation cache files")
	cmd.Flags().IntVarP(&flags.Quota, "quota", "q", flags.Quota, "Words per daily email")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Build and print the email without sending or finalizing")
	cmd.Flags().BoolVar(&flags.SkipAudio, "skip-audio", false, "Skip audio generation")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Archive the state directory and start a fresh learning cycle")

	// Logging flags
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")

	// Generation flags
	cmd.Flags().StringVar(&flags.GenProvider, "provider", flags.GenProvider, "Generation provider: openai or gemini")
	cmd.Flags().StringVar(&flags.GenModel, "model", flags.GenModel, "Generation model name")
	cmd.Flags().StringVar(&flags.TranslateModel, "translate-model", flags.TranslateModel, "Translation model name")

	// OpenAI TTS flags
	cmd.Flags().StringVar(&flags.TTSModel, "tts-model", flags.TTSModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.TTSVoice, "tts-voice", "", "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse (default: random)")
	cmd.Flags().Float64Var(&flags.TTSSpeed, "tts-speed", flags.TTSSpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	cmd.Flags().StringVar(&flags.TTSInstruction, "tts-instruction", "", "Voice instructions for gpt-4o-mini-tts model")

	// SMTP flags
	cmd.Flags().StringVar(&flags.SMTPHost, "smtp-host", "", "SMTP server host")
	cmd.Flags().IntVar(&flags.SMTPPort, "smtp-port", flags.SMTPPort, "SMTP server port")
	cmd.Flags().StringVar(&flags.SMTPFrom, "smtp-from", "", "Sender address")
	cmd.Flags().StringVar(&flags.SMTPTo, "smtp-to", "", "Recipient address")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("words", cmd.Flags().Lookup("words"))
	viper.BindPFlag("state_dir", cmd.Flags().Lookup("state-dir"))
	viper.BindPFlag("quota", cmd.Flags().Lookup("quota"))
	viper.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.Flags().Lookup("log-format"))
	viper.BindPFlag("generate.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("generate.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("translate.model", cmd.Flags().Lookup("translate-model"))
	viper.BindPFlag("audio.tts_model", cmd.Flags().Lookup("tts-model"))
	viper.BindPFlag("audio.tts_voice", cmd.Flags().Lookup("tts-voice"))
	viper.BindPFlag("audio.tts_speed", cmd.Flags().Lookup("tts-speed"))
	viper.BindPFlag("audio.tts_instruction", cmd.Flags().Lookup("tts-instruction"))
	viper.BindPFlag("smtp.host", cmd.Flags().Lookup("smtp-host"))
	viper.BindPFlag("smtp.port", cmd.Flags().Lookup("smtp-port"))
	viper.BindPFlag("smtp.from", cmd.Flags().Lookup("smtp-from"))
	viper.BindPFlag("smtp.to", cmd.Flags().Lookup("smtp-to"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".wordmail" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wordmail")
	}

	// Environment variables
	viper.SetEnvPrefix("WORDMAIL")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("openai_api_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini_api_key")
}

// GetSMTPUsername retrieves the SMTP username from environment or config
func GetSMTPUsername() string {
	if v := os.Getenv("WORDMAIL_SMTP_USERNAME"); v != "" {
		return v
	}
	return viper.GetString("smtp.username")
}

// GetSMTPPassword retrieves the SMTP password from environment or config.
// Credentials are never taken from flags so they stay out of process lists.
func GetSMTPPassword() string {
	if v := os.Getenv("WORDMAIL_SMTP_PASSWORD"); v != "" {
		return v
	}
	return viper.GetString("smtp.password")
}
