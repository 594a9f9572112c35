package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	LogFormat              string `mapstructure:"log_format"               validate:"required,oneof=json text"`
	Environment            string `mapstructure:"environment"              validate:"required,oneof=development production"`
	CORSOrigins            string `mapstructure:"cors_origins"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"         validate:"required,oneof=postgres memory"`
	URL          string `mapstructure:"url"            validate:"required_if=Driver postgres"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider           string  `mapstructure:"provider"             validate:"required,oneof=gemini openai"`
	ModelName          string  `mapstructure:"model_name"           validate:"required"`
	GeminiAPIKey       string  `mapstructure:"gemini_api_key"       validate:"required_if=Provider gemini"`
	OpenAIAPIKey       string  `mapstructure:"openai_api_key"       validate:"required_if=Provider openai"`
	OpenAIBaseURL      string  `mapstructure:"openai_base_url"      validate:"omitempty,url"`
	Temperature        float32 `mapstructure:"temperature"          validate:"gte=0,lte=2"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds"      validate:"required,gt=0"`
	BreakerMaxFailures int     `mapstructure:"breaker_max_failures" validate:"required,gt=0"`
	BreakerOpenSeconds int     `mapstructure:"breaker_open_seconds" validate:"required,gt=0"`
}

// Timeout returns the per-call provider deadline.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BreakerOpenTimeout returns how long the circuit breaker stays open.
func (c LLMConfig) BreakerOpenTimeout() time.Duration {
	return time.Duration(c.BreakerOpenSeconds) * time.Second
}
