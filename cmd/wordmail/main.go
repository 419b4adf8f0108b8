package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bmihaylov/wordmail/internal/archive"
	"github.com/bmihaylov/wordmail/internal/audio"
	"github.com/bmihaylov/wordmail/internal/cli"
	"github.com/bmihaylov/wordmail/internal/dispatch"
	"github.com/bmihaylov/wordmail/internal/generate"
	"github.com/bmihaylov/wordmail/internal/logging"
	"github.com/bmihaylov/wordmail/internal/mail"
	"github.com/bmihaylov/wordmail/internal/models"
	"github.com/bmihaylov/wordmail/internal/phonetic"
	"github.com/bmihaylov/wordmail/internal/retry"
	"github.com/bmihaylov/wordmail/internal/state"
	"github.com/bmihaylov/wordmail/internal/translate"
	"github.com/bmihaylov/wordmail/internal/vocab"
)

func main() {
	// Optional .env file for API keys and SMTP credentials.
	_ = godotenv.Load()

	flags := cli.NewFlags()
	rootCmd := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, flags)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	log := logging.New(logging.Config{Level: flags.LogLevel, Format: flags.LogFormat})

	// Handle --archive flag
	if flags.Archive {
		if err := archive.ArchiveState(flags.StateDir); err != nil {
			return fmt.Errorf("failed to archive state: %w", err)
		}
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels()
	}

	if !cmd.Flags().Changed("words") {
		if fromConfig := viper.GetString("words"); fromConfig != "" {
			flags.WordList = fromConfig
		}
	}
	if flags.WordList == "" {
		return fmt.Errorf("no vocabulary file given, use --words or set words in the config file")
	}

	source, err := vocab.Load(flags.WordList)
	if err != nil {
		return fmt.Errorf("loading vocabulary: %w", err)
	}

	if err := os.MkdirAll(flags.StateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	store := state.NewStore(filepath.Join(flags.StateDir, "state.json"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := generate.NewClient(ctx, &generate.Config{
		Provider:  flags.GenProvider,
		Model:     flags.GenModel,
		OpenAIKey: cli.GetOpenAIKey(),
		GeminiKey: cli.GetGeminiKey(),
	})
	if err != nil {
		return fmt.Errorf("creating generation client: %w", err)
	}
	log.Info("generation provider ready", "provider", client.Name(), "model", flags.GenModel)
	generator := generate.NewGenerator(client, retry.DefaultPolicy())

	backend, err := translate.NewOpenAIBackend(cli.GetOpenAIKey(), flags.TranslateModel)
	if err != nil {
		return fmt.Errorf("creating translation backend: %w", err)
	}
	log.Info("translation backend ready", "backend", backend.Name(), "model", flags.TranslateModel)
	cache := translate.LoadCache(filepath.Join(flags.StateDir, "translations.json"))
	translator := translate.NewTranslator(backend, cache, retry.DefaultPolicy(), "English", "Bulgarian", log)

	var audioProvider audio.Provider
	if !flags.SkipAudio {
		cfg := audio.DefaultProviderConfig()
		cfg.OpenAIKey = cli.GetOpenAIKey()
		cfg.OpenAIModel = flags.TTSModel
		cfg.OpenAIVoice = flags.TTSVoice
		cfg.OpenAISpeed = flags.TTSSpeed
		if flags.TTSInstruction != "" {
			cfg.OpenAIInstruction = flags.TTSInstruction
		}
		provider, err := audio.NewProvider(cfg)
		if err != nil {
			log.Warn("audio provider unavailable, continuing without audio", "error", err)
		} else {
			log.Info("audio provider ready", "provider", provider.Name(), "model", flags.TTSModel)
			audioProvider = provider
		}
	}

	var sender mail.Sender
	if !flags.DryRun {
		smtpCfg := mail.SMTPConfig{
			Host:     viper.GetString("smtp.host"),
			Port:     viper.GetInt("smtp.port"),
			Username: cli.GetSMTPUsername(),
			Password: cli.GetSMTPPassword(),
			From:     viper.GetString("smtp.from"),
			To:       viper.GetString("smtp.to"),
		}
		sender, err = mail.NewSMTPSender(smtpCfg)
		if err != nil {
			return fmt.Errorf("smtp configuration: %w", err)
		}
	}

	d := dispatch.New(store, source, generator, translator, audioProvider, sender, dispatch.Options{
		Phonetics:    phonetic.NewFetcher(cli.GetOpenAIKey()),
		Quota:        flags.Quota,
		DryRun:       flags.DryRun,
		AudioDir:     flags.StateDir,
		BlocklistLog: filepath.Join(flags.StateDir, "blocklist.log"),
		Policy:       retry.DefaultPolicy(),
	}, log)

	return d.Run(ctx)
}
