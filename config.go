package askimage

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the Groq-hosted vision model the app was built around.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
)

// Config is the top-level application configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Limits   Limits         `yaml:"limits"`

	// TypingDelayMS is the per-character delay of the simulated typing
	// output. Zero disables the animation.
	TypingDelayMS int `yaml:"typing_delay_ms"`
}

// ProviderConfig configures the upstream chat API.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Auth    Auth   `yaml:"auth"`
}

// TypingDelay returns the configured typing delay as a duration.
func (c Config) TypingDelay() time.Duration {
	return time.Duration(c.TypingDelayMS) * time.Millisecond
}

// DefaultConfig returns the configuration used when no config file is
// given: Groq endpoint, free-tier limits, 10ms typing delay.
func DefaultConfig() Config {
	c := Config{TypingDelayMS: 10}
	c.applyDefaults()
	return c
}

// LoadConfig reads and parses a YAML config file.
// Environment variables in the format ${VAR} are expanded before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("askimage: read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("askimage: parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = DefaultBaseURL
	}
	if c.Provider.Model == "" {
		c.Provider.Model = DefaultModel
	}

	def := DefaultLimits()
	if c.Limits.RequestsPerMinute == 0 {
		c.Limits.RequestsPerMinute = def.RequestsPerMinute
	}
	if c.Limits.RequestsPerDay == 0 {
		c.Limits.RequestsPerDay = def.RequestsPerDay
	}
	if c.Limits.TokensPerMinute == 0 {
		c.Limits.TokensPerMinute = def.TokensPerMinute
	}
	if c.Limits.TokensPerDay == 0 {
		c.Limits.TokensPerDay = def.TokensPerDay
	}
	if c.Limits.PerRequestTokens == 0 {
		c.Limits.PerRequestTokens = def.PerRequestTokens
	}
}

// Validate checks the config for consistency.
func (c Config) Validate() error {
	if c.Limits.RequestsPerMinute < 0 || c.Limits.RequestsPerDay < 0 ||
		c.Limits.TokensPerMinute < 0 || c.Limits.TokensPerDay < 0 ||
		c.Limits.PerRequestTokens < 0 {
		return fmt.Errorf("askimage: config: limits must be non-negative")
	}
	if c.TypingDelayMS < 0 {
		return fmt.Errorf("askimage: config: typing_delay_ms must be non-negative")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("askimage: config: provider base_url is required")
	}
	if c.Provider.Model == "" {
		return fmt.Errorf("askimage: config: provider model is required")
	}
	return nil
}
