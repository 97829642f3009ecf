package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables.
// Variables use the EXTRACT_ prefix with underscores for nesting, e.g.
// EXTRACT_SERVER_PORT or EXTRACT_LLM_GEMINI_API_KEY. Environment values
// take precedence over the built-in defaults.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults. Every key is registered here so AutomaticEnv can resolve it.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("jobs.worker_count", 2)
	v.SetDefault("jobs.queue_size", 100)
	v.SetDefault("jobs.ttl_minutes", 30)
	v.SetDefault("jobs.sweep_schedule", "@every 5m")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.standard_model", "gemini-2.0-flash")
	v.SetDefault("llm.advanced_model", "gemini-2.5-pro")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.continuation_rounds", 2)
	v.SetDefault("llm.request_reasoning", false)

	v.SetEnvPrefix("EXTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
