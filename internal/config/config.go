package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the WhatsApp relay.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	BrainProvider    string
	OpenAIAPIKey     string
	OpenAIModel      string
	BrainHTTPURL     string
	BrainTimeout     time.Duration
	BrainMaxTokens   int
	BrainTemperature float64

	HistoryCapacity int
	MaxMessageChars int
	DocMaxChars     int

	TwilioAccountSID  string
	TwilioAuthToken   string
	MediaFetchTimeout time.Duration

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "akira"),
		AllowAnyOrigin:    false,
		BrainProvider:     envOrDefault("BRAIN_PROVIDER", "auto"),
		OpenAIAPIKey:      envTrimmed("OPENAI_API_KEY"),
		OpenAIModel:       envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		BrainHTTPURL:      envTrimmed("BRAIN_HTTP_URL"),
		TwilioAccountSID:  envTrimmed("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   envTrimmed("TWILIO_AUTH_TOKEN"),
		DatabaseURL:       envTrimmed("DATABASE_URL"),
		ShutdownTimeout:   15 * time.Second,
		BrainTimeout:      30 * time.Second,
		MediaFetchTimeout: 30 * time.Second,
		BrainMaxTokens:    600,
		BrainTemperature:  0.3,
		HistoryCapacity:   12,
		MaxMessageChars:   1400,
		DocMaxChars:       10000,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.BrainTimeout, err = durationFromEnv("BRAIN_TIMEOUT", cfg.BrainTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.MediaFetchTimeout, err = durationFromEnv("MEDIA_FETCH_TIMEOUT", cfg.MediaFetchTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.BrainMaxTokens, err = intFromEnv("BRAIN_MAX_TOKENS", cfg.BrainMaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.BrainTemperature, err = floatFromEnv("BRAIN_TEMPERATURE", cfg.BrainTemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryCapacity, err = intFromEnv("MEMORY_MAX_TURNS", cfg.HistoryCapacity)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxMessageChars, err = intFromEnv("TRANSPORT_MAX_CHARS", cfg.MaxMessageChars)
	if err != nil {
		return Config{}, err
	}
	cfg.DocMaxChars, err = intFromEnv("DOC_MAX_CHARS", cfg.DocMaxChars)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.BrainTimeout < time.Second {
		return Config{}, fmt.Errorf("BRAIN_TIMEOUT must be at least 1s")
	}
	if cfg.BrainMaxTokens <= 0 {
		return Config{}, fmt.Errorf("BRAIN_MAX_TOKENS must be positive")
	}
	if cfg.BrainTemperature < 0 || cfg.BrainTemperature > 2 {
		return Config{}, fmt.Errorf("BRAIN_TEMPERATURE must be between 0 and 2")
	}
	if cfg.HistoryCapacity <= 0 {
		return Config{}, fmt.Errorf("MEMORY_MAX_TURNS must be positive")
	}
	if cfg.MaxMessageChars < 1 {
		return Config{}, fmt.Errorf("TRANSPORT_MAX_CHARS must be at least 1")
	}
	if cfg.DocMaxChars <= 0 {
		return Config{}, fmt.Errorf("DOC_MAX_CHARS must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
