// Package config loads studyforge settings from an optional YAML file and
// STUDYFORGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/studyforge/internal/llm"
	"github.com/abhisek/studyforge/internal/studyplan"
)

// EnvPrefix prefixes every environment override, e.g.
// STUDYFORGE_LLM_PROVIDER or STUDYFORGE_PLAN_LANGUAGE.
const EnvPrefix = "STUDYFORGE"

// Config is the full application configuration.
type Config struct {
	LLM  LLMConfig  `mapstructure:"llm"`
	Plan PlanConfig `mapstructure:"plan"`
	Log  LogConfig  `mapstructure:"log"`

	// DB is the path of the request log database. Empty uses the default.
	DB string `mapstructure:"db"`
}

type LLMConfig struct {
	Provider    string         `mapstructure:"provider"`
	Timeout     time.Duration  `mapstructure:"timeout"`
	MaxAttempts int            `mapstructure:"max_attempts"`
	Gemini      ProviderConfig `mapstructure:"gemini"`
	Anthropic   ProviderConfig `mapstructure:"anthropic"`
	OpenAI      ProviderConfig `mapstructure:"openai"`
	OpenRouter  ProviderConfig `mapstructure:"openrouter"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type PlanConfig struct {
	Language      string  `mapstructure:"language"`
	Subject       string  `mapstructure:"subject"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	ChatMaxTokens int     `mapstructure:"chat_max_tokens"`
	Temperature   float64 `mapstructure:"temperature"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/studyforge/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "studyforge", "config.yaml"), nil
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	v.SetDefault("llm.provider", llmDefaults.Provider)
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	v.SetDefault("llm.max_attempts", llmDefaults.Retry.MaxAttempts)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")

	planDefaults := studyplan.DefaultConfig()
	v.SetDefault("plan.language", planDefaults.Language)
	v.SetDefault("plan.subject", planDefaults.Subject)
	v.SetDefault("plan.max_tokens", planDefaults.MaxTokens)
	v.SetDefault("plan.chat_max_tokens", planDefaults.ChatMaxTokens)
	v.SetDefault("plan.temperature", planDefaults.Temperature)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("db", "")
}

// Load reads configuration. An explicit path must exist; without one the
// default location is tried and silently skipped when absent.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if def, err := DefaultConfigPath(); err == nil {
		v.SetConfigFile(def)
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", def, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// LLMConfig converts the settings into an llm.Config. When the selected
// provider has no key configured, standard vendor env vars are probed.
func (c *Config) LLMConfig() llm.Config {
	cfg := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		cfg.Provider = strings.ToLower(c.LLM.Provider)
	}
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	if c.LLM.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = c.LLM.MaxAttempts
	}

	cfg.Gemini.APIKey = c.LLM.Gemini.APIKey
	cfg.Gemini.Model = orDefault(c.LLM.Gemini.Model, cfg.Gemini.Model)
	cfg.Gemini.BaseURL = c.LLM.Gemini.BaseURL
	cfg.Anthropic.APIKey = c.LLM.Anthropic.APIKey
	cfg.Anthropic.Model = orDefault(c.LLM.Anthropic.Model, cfg.Anthropic.Model)
	cfg.Anthropic.BaseURL = c.LLM.Anthropic.BaseURL
	cfg.OpenAI.APIKey = c.LLM.OpenAI.APIKey
	cfg.OpenAI.Model = orDefault(c.LLM.OpenAI.Model, cfg.OpenAI.Model)
	cfg.OpenAI.BaseURL = c.LLM.OpenAI.BaseURL
	cfg.OpenRouter.APIKey = c.LLM.OpenRouter.APIKey
	cfg.OpenRouter.Model = orDefault(c.LLM.OpenRouter.Model, cfg.OpenRouter.Model)
	cfg.OpenRouter.BaseURL = c.LLM.OpenRouter.BaseURL

	if cfg.Provider != llm.ProviderMock && cfg.APIKey() == "" {
		if discovered, ok := llm.DiscoverConfig(cfg); ok {
			cfg = discovered
		}
	}
	return cfg
}

// PlanConfig converts the settings into a studyplan.Config.
func (c *Config) PlanConfig() studyplan.Config {
	return studyplan.Config{
		Language:      c.Plan.Language,
		Subject:       c.Plan.Subject,
		MaxTokens:     c.Plan.MaxTokens,
		ChatMaxTokens: c.Plan.ChatMaxTokens,
		Temperature:   c.Plan.Temperature,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
