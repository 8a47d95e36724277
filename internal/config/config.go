// Package config loads service configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"nutriproof/internal/grade"
)

type Config struct {
	HTTPAddr    string
	APIToken    string
	DatabaseURL string
	RedisAddr   string

	MinioEndpoint  string
	MinioBucket    string
	MinioAccessKey string
	MinioSecretKey string

	LLMProvider          string
	LLMModel             string
	OpenAIAPIKey         string
	GeminiAPIKey         string
	LLMRequestsPerMinute int

	WolframAppID    string
	WolframCacheTTL time.Duration

	MaxClaims         int
	Concurrency       int
	WorkerConcurrency int

	VerdictField string
	MatchPolicy  string

	LogLevel  string
	LogFormat string
}

func defaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("llm_provider", "openai")
	v.SetDefault("llm_requests_per_minute", 60)
	v.SetDefault("wolfram_cache_ttl", "24h")
	v.SetDefault("factcheck_max_claims", 10)
	v.SetDefault("factcheck_concurrency", 3)
	v.SetDefault("worker_concurrency", 5)
	v.SetDefault("grade_verdict_field", string(grade.FieldAuto))
	v.SetDefault("grade_match_policy", string(grade.MatchFalsePriority))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// Load reads .env (when present) and then the process environment.
// Environment variables win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPAddr:    v.GetString("http_addr"),
		APIToken:    v.GetString("api_token"),
		DatabaseURL: v.GetString("database_url"),
		RedisAddr:   v.GetString("redis_addr"),

		MinioEndpoint:  v.GetString("minio_endpoint"),
		MinioBucket:    v.GetString("minio_bucket"),
		MinioAccessKey: v.GetString("minio_access_key"),
		MinioSecretKey: v.GetString("minio_secret_key"),

		LLMProvider:          v.GetString("llm_provider"),
		LLMModel:             v.GetString("llm_model"),
		OpenAIAPIKey:         v.GetString("openai_api_key"),
		GeminiAPIKey:         v.GetString("gemini_api_key"),
		LLMRequestsPerMinute: v.GetInt("llm_requests_per_minute"),

		WolframAppID:    v.GetString("wolfram_appid"),
		WolframCacheTTL: v.GetDuration("wolfram_cache_ttl"),

		MaxClaims:         v.GetInt("factcheck_max_claims"),
		Concurrency:       v.GetInt("factcheck_concurrency"),
		WorkerConcurrency: v.GetInt("worker_concurrency"),

		VerdictField: v.GetString("grade_verdict_field"),
		MatchPolicy:  v.GetString("grade_match_policy"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations. Presence of credentials is
// checked by the components that need them.
func (c *Config) Validate() error {
	if _, err := c.GradeOptions(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	switch c.LLMProvider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("config error: unknown llm provider %q", c.LLMProvider)
	}
	if c.MaxClaims <= 0 {
		return fmt.Errorf("config error: 'FACTCHECK_MAX_CLAIMS' must be positive")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("config error: 'FACTCHECK_CONCURRENCY' must be positive")
	}
	if c.WorkerConcurrency <= 0 {
		return fmt.Errorf("config error: 'WORKER_CONCURRENCY' must be positive")
	}
	if c.LLMRequestsPerMinute < 0 {
		return fmt.Errorf("config error: 'LLM_REQUESTS_PER_MINUTE' must be non-negative")
	}
	if c.WolframCacheTTL < 0 {
		return fmt.Errorf("config error: 'WOLFRAM_CACHE_TTL' must be non-negative")
	}
	return nil
}

// GradeOptions returns the configured grading policy.
func (c *Config) GradeOptions() (grade.Options, error) {
	return grade.ParseOptions(c.VerdictField, c.MatchPolicy)
}

// LLMAPIKey returns the key for the configured provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}
