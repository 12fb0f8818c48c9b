package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Telegram.StalenessMinutes != 3 {
		t.Errorf("StalenessMinutes=%d want 3", cfg.Telegram.StalenessMinutes)
	}
	if cfg.OpenAI.Model == "" {
		t.Error("Model should not be empty")
	}
	if cfg.OpenAI.HTTPTimeout != 90 {
		t.Errorf("HTTPTimeout=%d want 90", cfg.OpenAI.HTTPTimeout)
	}
	if cfg.Gateway.Port != 18790 {
		t.Errorf("Port=%d want 18790", cfg.Gateway.Port)
	}
	if cfg.Telegram.AdminUsername == "" {
		t.Error("AdminUsername should not be empty")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Gateway.Port != 18790 {
		t.Errorf("Port=%d want default", cfg.Gateway.Port)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"telegram":{"token":"tok","admin_id":42,"staleness_minutes":5},"gateway":{"port":9999}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Telegram.Token != "tok" {
		t.Errorf("Token=%q", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminID != 42 {
		t.Errorf("AdminID=%d", cfg.Telegram.AdminID)
	}
	if cfg.Gateway.Port != 9999 {
		t.Errorf("Port=%d", cfg.Gateway.Port)
	}
	// Unset fields keep their defaults.
	if cfg.OpenAI.Model == "" {
		t.Error("Model lost its default")
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"telegram":{"token":"from-file"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TGBRIDGE_TELEGRAM_TOKEN", "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Errorf("Token=%q want env value", cfg.Telegram.Token)
	}
}

func TestLoadConfig_SecretEnvRefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"telegram":{"token":"${BOT_TOKEN_REF}"},"openai":{"api_key":"$API_KEY_REF"}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN_REF", "real-token")
	t.Setenv("API_KEY_REF", "real-key")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Telegram.Token != "real-token" {
		t.Errorf("Token=%q", cfg.Telegram.Token)
	}
	if cfg.OpenAI.APIKey != "real-key" {
		t.Errorf("APIKey=%q", cfg.OpenAI.APIKey)
	}
}

func TestLoadConfig_UnresolvedRefKeptVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"telegram":{"token":"$NO_SUCH_VAR_SET"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Telegram.Token != "$NO_SUCH_VAR_SET" {
		t.Errorf("Token=%q want verbatim reference", cfg.Telegram.Token)
	}
}

func TestStalenessWindow(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.StalenessWindow(); got != 3*time.Minute {
		t.Errorf("StalenessWindow=%v", got)
	}

	cfg.Telegram.StalenessMinutes = 10
	if got := cfg.StalenessWindow(); got != 10*time.Minute {
		t.Errorf("StalenessWindow=%v", got)
	}

	cfg.Telegram.StalenessMinutes = -1
	if got := cfg.StalenessWindow(); got != 3*time.Minute {
		t.Errorf("StalenessWindow=%v want fallback", got)
	}
}

func TestCompletionTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.CompletionTimeout(); got != 90*time.Second {
		t.Errorf("CompletionTimeout=%v", got)
	}

	cfg.OpenAI.HTTPTimeout = 0
	if got := cfg.CompletionTimeout(); got != 90*time.Second {
		t.Errorf("CompletionTimeout=%v want fallback", got)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.Telegram.AdminID = 77

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Telegram.AdminID != 77 {
		t.Errorf("AdminID=%d want 77", loaded.Telegram.AdminID)
	}
}
