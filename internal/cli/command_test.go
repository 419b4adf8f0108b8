package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	if cmd.Use != "wordmail" {
		t.Errorf("Expected Use to be 'wordmail', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "vocabulary email") {
		t.Errorf("Expected Short description to mention the vocabulary email")
	}

	flagTests := []string{
		"config",
		"words",
		"state-dir",
		"quota",
		"dry-run",
		"skip-audio",
		"list-models",
		"archive",
		"log-level",
		"log-format",
		"provider",
		"model",
		"translate-model",
		"tts-model",
		"tts-voice",
		"tts-speed",
		"tts-instruction",
		"smtp-host",
		"smtp-port",
		"smtp-from",
		"smtp-to",
	}

	for _, name := range flagTests {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag
			if name == "config" {
				flag = cmd.PersistentFlags().Lookup(name)
			} else {
				flag = cmd.Flags().Lookup(name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}
}

func TestSetupFlagDefaults(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	quotaFlag := cmd.Flags().Lookup("quota")
	if quotaFlag == nil {
		t.Fatal("quota flag not found")
	}
	if quotaFlag.DefValue != "10" {
		t.Errorf("Expected quota default 10, got %s", quotaFlag.DefValue)
	}

	providerFlag := cmd.Flags().Lookup("provider")
	if providerFlag == nil {
		t.Fatal("provider flag not found")
	}
	if providerFlag.DefValue != "openai" {
		t.Errorf("Expected provider default openai, got %s", providerFlag.DefValue)
	}

	ttsModelFlag := cmd.Flags().Lookup("tts-model")
	if ttsModelFlag == nil {
		t.Fatal("tts-model flag not found")
	}
	if ttsModelFlag.DefValue != "gpt-4o-mini-tts" {
		t.Errorf("Expected tts-model default gpt-4o-mini-tts, got %s", ttsModelFlag.DefValue)
	}
}

func TestNewFlagsDefaults(t *testing.T) {
	flags := NewFlags()

	if flags.Quota != 10 {
		t.Errorf("Quota default = %d, want 10", flags.Quota)
	}
	if flags.LogFormat != "text" {
		t.Errorf("LogFormat default = %q, want text", flags.LogFormat)
	}
	if flags.SMTPPort != 587 {
		t.Errorf("SMTPPort default = %d, want 587", flags.SMTPPort)
	}
	if !strings.HasSuffix(flags.StateDir, filepath.Join(".local", "state", "wordmail")) {
		t.Errorf("StateDir default = %q", flags.StateDir)
	}
}

func TestInitConfigWithFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "quota: 7\nsmtp:\n  host: mail.example.com\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	viper.Reset()
	defer viper.Reset()
	InitConfig(cfgPath)

	if got := viper.GetInt("quota"); got != 7 {
		t.Errorf("quota from config = %d, want 7", got)
	}
	if got := viper.GetString("smtp.host"); got != "mail.example.com" {
		t.Errorf("smtp.host from config = %q", got)
	}
}

func TestGetOpenAIKeyPrefersEnvironment(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("openai_api_key", "from-config")
	t.Setenv("OPENAI_API_KEY", "from-env")

	if got := GetOpenAIKey(); got != "from-env" {
		t.Errorf("GetOpenAIKey() = %q, want the environment value", got)
	}

	t.Setenv("OPENAI_API_KEY", "")
	if got := GetOpenAIKey(); got != "from-config" {
		t.Errorf("GetOpenAIKey() = %q, want the config value", got)
	}
}

func TestGetSMTPPassword(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("smtp.password", "config-secret")
	t.Setenv("WORDMAIL_SMTP_PASSWORD", "env-secret")

	if got := GetSMTPPassword(); got != "env-secret" {
		t.Errorf("GetSMTPPassword() = %q, want the environment value", got)
	}

	t.Setenv("WORDMAIL_SMTP_PASSWORD", "")
	if got := GetSMTPPassword(); got != "config-secret" {
		t.Errorf("GetSMTPPassword() = %q, want the config value", got)
	}
}
