package env

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	DefaultTargetURL = "https://embedded-finance-dev.com/ep/onboarding?scenario=scenario8&fullScreen=true"
	DefaultModel     = "gpt-4.1-mini"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

type Config struct {
	APIKey           string
	Model            string
	BaseURL          string
	TargetURL        string
	ProfileFile      string
	LogDir           string
	LogLevel         string
	ConversationPath string
	BrowserHeadless  bool
	Screenshots      bool
	MaxSteps         int
	MaxFailures      int
	MaxInputTokens   int
}

type source interface {
	Get(key string) string
	GetWithDefault(key, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
	GetInt(key string, defaultValue int) int
}

func LoadConfig(env source) (Config, error) {
	logDir := env.GetWithDefault("LOG_DIR", "logs")

	cfg := Config{
		APIKey:           env.Get("OPENAI_API_KEY"),
		Model:            env.GetWithDefault("LLM_MODEL", DefaultModel),
		BaseURL:          env.Get("OPENAI_BASE_URL"),
		TargetURL:        env.GetWithDefault("TARGET_URL", DefaultTargetURL),
		ProfileFile:      env.Get("PROFILE_FILE"),
		LogDir:           logDir,
		LogLevel:         env.GetWithDefault("LOG_LEVEL", "info"),
		ConversationPath: env.GetWithDefault("CONVERSATION_PATH", filepath.Join(logDir, "conversation")),
		BrowserHeadless:  env.GetBool("BROWSER_HEADLESS", false),
		Screenshots:      env.GetBool("SCREENSHOTS", true),
		MaxSteps:         env.GetInt("MAX_STEPS", 100),
		MaxFailures:      env.GetInt("MAX_FAILURES", 3),
		MaxInputTokens:   env.GetInt("MAX_INPUT_TOKENS", 128000),
	}

	if cfg.APIKey == "" {
		return cfg, ErrMissingAPIKey
	}
	if cfg.MaxSteps <= 0 {
		return cfg, fmt.Errorf("MAX_STEPS must be positive, got %d", cfg.MaxSteps)
	}
	if cfg.MaxFailures <= 0 {
		return cfg, fmt.Errorf("MAX_FAILURES must be positive, got %d", cfg.MaxFailures)
	}
	return cfg, nil
}
