package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	OpenAI   OpenAIConfig   `json:"openai"`
	Gateway  GatewayConfig  `json:"gateway"`
	Logging  LoggingConfig  `json:"logging"`
}

type TelegramConfig struct {
	Token            string `json:"token" env:"TGBRIDGE_TELEGRAM_TOKEN"`
	AdminID          int64  `json:"admin_id" env:"TGBRIDGE_TELEGRAM_ADMIN_ID"`
	AdminUsername    string `json:"admin_username" env:"TGBRIDGE_TELEGRAM_ADMIN_USERNAME"`
	Proxy            string `json:"proxy" env:"TGBRIDGE_TELEGRAM_PROXY"`
	StalenessMinutes int    `json:"staleness_minutes" env:"TGBRIDGE_TELEGRAM_STALENESS_MINUTES"`
	AutoWebhook      bool   `json:"auto_webhook" env:"TGBRIDGE_TELEGRAM_AUTO_WEBHOOK"`
}

type OpenAIConfig struct {
	APIKey      string `json:"api_key" env:"TGBRIDGE_OPENAI_API_KEY"`
	APIBase     string `json:"api_base" env:"TGBRIDGE_OPENAI_API_BASE"`
	Model       string `json:"model" env:"TGBRIDGE_OPENAI_MODEL"`
	HTTPTimeout int    `json:"http_timeout" env:"TGBRIDGE_OPENAI_HTTP_TIMEOUT"` // seconds
}

type GatewayConfig struct {
	Host string `json:"host" env:"TGBRIDGE_GATEWAY_HOST"`
	Port int    `json:"port" env:"TGBRIDGE_GATEWAY_PORT"`
}

type LoggingConfig struct {
	FileEnabled bool   `json:"file_enabled" env:"TGBRIDGE_LOGGING_FILE_ENABLED"`
	FilePath    string `json:"file_path" env:"TGBRIDGE_LOGGING_FILE_PATH"`
}

func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:            "",
			AdminID:          0,
			AdminUsername:    "admin",
			StalenessMinutes: 3,
			AutoWebhook:      false,
		},
		OpenAI: OpenAIConfig{
			APIKey:      "",
			APIBase:     "",
			Model:       "gpt-4o-mini",
			HTTPTimeout: 90,
		},
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 18790,
		},
		Logging: LoggingConfig{
			FileEnabled: false,
			FilePath:    "~/.tgbridge/tgbridge.log",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Env-only configuration is fine.
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			resolveSecretEnvRefs(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	resolveSecretEnvRefs(cfg)

	return cfg, nil
}

// resolveSecretEnvRefs lets secret fields carry "$VAR" / "${VAR}" references,
// so config files can be committed without the credentials themselves.
func resolveSecretEnvRefs(cfg *Config) {
	cfg.Telegram.Token = resolveEnvRef(cfg.Telegram.Token)
	cfg.OpenAI.APIKey = resolveEnvRef(cfg.OpenAI.APIKey)
	cfg.OpenAI.APIBase = resolveEnvRef(cfg.OpenAI.APIBase)
}

func resolveEnvRef(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return v
	}
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		key := strings.TrimSpace(s[2 : len(s)-1])
		if key == "" {
			return v
		}
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return v
	}
	if strings.HasPrefix(s, "$") && len(s) > 1 {
		key := strings.TrimSpace(s[1:])
		if key == "" {
			return v
		}
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
	}
	return v
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// StalenessWindow returns the inbound-update age cutoff.
func (c *Config) StalenessWindow() time.Duration {
	minutes := c.Telegram.StalenessMinutes
	if minutes <= 0 {
		minutes = 3
	}
	return time.Duration(minutes) * time.Minute
}

// CompletionTimeout returns the HTTP timeout for the completion backend.
func (c *Config) CompletionTimeout() time.Duration {
	seconds := c.OpenAI.HTTPTimeout
	if seconds <= 0 {
		seconds = 90
	}
	return time.Duration(seconds) * time.Second
}

func (c *Config) LogFilePath() string {
	return expandHome(c.Logging.FilePath)
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
