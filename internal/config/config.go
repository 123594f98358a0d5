package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	RedisURL           string
	CORSAllowedOrigins []string

	// OrderSecret gates the checkout trigger. Only a hash of it is kept
	// once the gate is constructed.
	OrderSecret   string
	GateRateLimit string

	WastePercent float64
	CatalogPath  string
	ArchiveKey   string
	SessionTTL   time.Duration

	TelegramBotToken string
	TelegramChatID   string
	TelegramBaseURL  string
	NotifyTimeout    time.Duration
	NotifyMaxRetry   int
	NotifyQueue      string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		OrderSecret:        k.String("ORDER_SECRET"),
		GateRateLimit:      valueOrDefault(k.String("GATE_RATE_LIMIT"), "10-M"),
		WastePercent:       parseFloat(k.String("WASTE_PERCENT"), 3),
		CatalogPath:        strings.TrimSpace(k.String("CATALOG_PATH")),
		ArchiveKey:         valueOrDefault(k.String("ARCHIVE_KEY"), "glasspos:archive"),
		SessionTTL:         parseDuration(k.String("SESSION_TTL"), "12h"),
		TelegramBotToken:   k.String("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:     k.String("TELEGRAM_CHAT_ID"),
		TelegramBaseURL:    valueOrDefault(k.String("TELEGRAM_BASE_URL"), "https://api.telegram.org"),
		NotifyTimeout:      parseDuration(k.String("NOTIFY_TIMEOUT"), "15s"),
		NotifyMaxRetry:     parseInt(k.String("NOTIFY_MAX_RETRY"), 5),
		NotifyQueue:        valueOrDefault(k.String("NOTIFY_QUEUE"), "receipts"),
	}

	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.OrderSecret == "" {
		return nil, errors.New("ORDER_SECRET is required")
	}
	if cfg.WastePercent < 0 {
		return nil, errors.New("WASTE_PERCENT must not be negative")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// TelegramConfigured reports whether receipt delivery credentials are present.
func (c *Config) TelegramConfigured() bool {
	return strings.TrimSpace(c.TelegramBotToken) != "" && strings.TrimSpace(c.TelegramChatID) != ""
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return n
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
