package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	ai "github.com/spindlehq/spindle"
	"github.com/spindlehq/spindle/client"
)

// Config defines all configurable parameters, sourced from environment
// variables (loaded from .env for local runs).
type Config struct {
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	GoogleAPIKey    string `envconfig:"GEMINI_API_KEY"`

	Provider string `envconfig:"SPINDLE_PROVIDER" default:"anthropic"`
	Model    string `envconfig:"SPINDLE_MODEL"`

	RedisURL   string `envconfig:"SPINDLE_REDIS_URL"`
	SessionKey string `envconfig:"SPINDLE_SESSION_KEY" default:"default"`

	Streaming    bool `envconfig:"SPINDLE_STREAMING" default:"true"`
	EnableCoT    bool `envconfig:"SPINDLE_ENABLE_COT"`
	ShowThinking bool `envconfig:"SPINDLE_SHOW_THINKING"`

	Debug bool `envconfig:"SPINDLE_DEBUG"`
}

func loadConfig() (Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment config: %w", err)
	}

	switch ai.Provider(cfg.Provider) {
	case ai.ProviderAnthropic, ai.ProviderOpenAI, ai.ProviderGoogle:
	default:
		return Config{}, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
	return cfg, nil
}

func (c Config) settings() ai.Settings {
	return ai.Settings{
		Streaming:    c.Streaming,
		EnableCoT:    c.EnableCoT,
		ShowThinking: c.ShowThinking,
	}
}

func (c Config) newClient() *client.Client {
	return client.New(client.Config{
		APIKeys: client.APIKeys{
			Anthropic: c.AnthropicAPIKey,
			OpenAI:    c.OpenAIAPIKey,
			Google:    c.GoogleAPIKey,
		},
		Provider: ai.Provider(c.Provider),
		Model:    c.Model,
	})
}

func newLogger(debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}
