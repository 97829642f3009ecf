package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Jobs   JobsConfig   `mapstructure:"jobs" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// JobsConfig contains the background-processing settings: worker pool size,
// queue capacity, and job retention.
type JobsConfig struct {
	// WorkerCount is the number of concurrent extraction workers.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`

	// QueueSize is the buffer size of the in-memory task queue. Submissions
	// beyond this are rejected until workers catch up.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`

	// TTLMinutes is how long a job stays in the store before the sweep
	// removes it, regardless of status.
	TTLMinutes int `mapstructure:"ttl_minutes" validate:"required,gt=0"`

	// SweepSchedule is the cron schedule for the eviction sweep,
	// e.g. "@every 5m".
	SweepSchedule string `mapstructure:"sweep_schedule" validate:"required"`
}

// LLMConfig contains all model integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`

	// StandardModel is the default extraction model.
	StandardModel string `mapstructure:"standard_model" validate:"required"`

	// AdvancedModel serves jobs submitted with the advanced-tier flag.
	AdvancedModel string `mapstructure:"advanced_model" validate:"required"`

	// MaxRetries bounds per-turn retry on transient transport errors.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`

	// RetryDelaySeconds is the base delay for exponential backoff.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`

	// ContinuationRounds bounds how many continuation turns the
	// orchestrator issues when output looks truncated.
	ContinuationRounds int `mapstructure:"continuation_rounds" validate:"gte=0"`

	// RequestReasoning adds an explicit reasoning turn on advanced-tier
	// conversations.
	RequestReasoning bool `mapstructure:"request_reasoning"`
}
