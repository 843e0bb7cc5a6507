// Package config loads runtime settings from defaults, an optional config
// file, a .env file and PASTPAPERS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/pastpapers/internal/llm"
)

const envPrefix = "PASTPAPERS"

// Config is the full application configuration.
type Config struct {
	Env string

	DB     DBConfig
	Server ServerConfig
	Log    LogConfig
	Warmup WarmupConfig
	LLM    llm.Config

	// DailyLimit is the number of questions a user may request per UTC
	// day. Zero disables the quota.
	DailyLimit int
}

type DBConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string // empty means the default SQLite path
}

type ServerConfig struct {
	Addr         string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string // "console" or "json"
}

type WarmupConfig struct {
	Enabled     bool
	Every       time.Duration
	Target      int
	Concurrency int
	Delay       time.Duration
}

// DotEnvFile is loaded before the environment is read, when it exists.
// Variables already set in the environment win.
var DotEnvFile = ".env"

func setDefaults(v *viper.Viper) {
	def := llm.DefaultConfig()

	v.SetDefault("env", "dev")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("quota.daily_limit", 10)
	v.SetDefault("warmup.enabled", false)
	v.SetDefault("warmup.every", 6*time.Hour)
	v.SetDefault("warmup.target", 5)
	v.SetDefault("warmup.concurrency", 2)
	v.SetDefault("warmup.delay", 2*time.Second)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", def.Timeout)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", def.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", def.Anthropic.Model)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", def.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", def.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", def.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", def.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", def.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", def.Retry.Multiplier)
}

// Load builds the configuration. configFile may be empty; when set it must
// exist and may be any format viper reads (yaml, toml, json).
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		DB: DBConfig{
			Driver: v.GetString("db.driver"),
			DSN:    v.GetString("db.dsn"),
		},
		Server: ServerConfig{
			Addr:         v.GetString("server.addr"),
			CORSOrigins:  v.GetStringSlice("server.cors_origins"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Warmup: WarmupConfig{
			Enabled:     v.GetBool("warmup.enabled"),
			Every:       v.GetDuration("warmup.every"),
			Target:      v.GetInt("warmup.target"),
			Concurrency: v.GetInt("warmup.concurrency"),
			Delay:       v.GetDuration("warmup.delay"),
		},
		DailyLimit: v.GetInt("quota.daily_limit"),
		LLM:        llmConfig(v),
	}
	if cfg.DailyLimit < 0 {
		return nil, fmt.Errorf("quota.daily_limit must not be negative, got %d", cfg.DailyLimit)
	}
	return cfg, nil
}

// llmConfig reads the llm.* keys. Without an explicit provider, the first
// provider with a configured key is chosen, then the first conventional
// API key variable found.
func llmConfig(v *viper.Viper) llm.Config {
	c := llm.Config{
		Provider: v.GetString("llm.provider"),
		Timeout:  v.GetDuration("llm.timeout"),
		OpenAI: llm.OpenAIConfig{
			APIKey:  v.GetString("llm.openai.api_key"),
			Model:   v.GetString("llm.openai.model"),
			BaseURL: v.GetString("llm.openai.base_url"),
		},
		Anthropic: llm.AnthropicConfig{
			APIKey: v.GetString("llm.anthropic.api_key"),
			Model:  v.GetString("llm.anthropic.model"),
		},
		Gemini: llm.GeminiConfig{
			APIKey: v.GetString("llm.gemini.api_key"),
			Model:  v.GetString("llm.gemini.model"),
		},
		OpenRouter: llm.OpenRouterConfig{
			APIKey:  v.GetString("llm.openrouter.api_key"),
			Model:   v.GetString("llm.openrouter.model"),
			BaseURL: v.GetString("llm.openrouter.base_url"),
		},
		Retry: llm.RetryConfig{
			MaxAttempts: v.GetInt("llm.retry.max_attempts"),
			InitialWait: v.GetDuration("llm.retry.initial_wait"),
			MaxWait:     v.GetDuration("llm.retry.max_wait"),
			Multiplier:  v.GetFloat64("llm.retry.multiplier"),
		},
	}
	if c.Provider != "" {
		return c
	}
	for _, p := range []struct{ name, key string }{
		{"openai", c.OpenAI.APIKey},
		{"anthropic", c.Anthropic.APIKey},
		{"gemini", c.Gemini.APIKey},
		{"openrouter", c.OpenRouter.APIKey},
	} {
		if p.key != "" {
			c.Provider = p.name
			return c
		}
	}
	if discovered, ok := c.Discover(); ok {
		return discovered
	}
	c.Provider = llm.DefaultConfig().Provider
	return c
}
