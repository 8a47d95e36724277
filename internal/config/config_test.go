package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriproof/internal/grade"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 10, cfg.MaxClaims)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 24*time.Hour, cfg.WolframCacheTTL)

	opts, err := cfg.GradeOptions()
	require.NoError(t, err)
	assert.Equal(t, grade.DefaultOptions(), opts)
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@localhost/app")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	t.Setenv("WOLFRAM_CACHE_TTL", "90m")
	t.Setenv("FACTCHECK_MAX_CLAIMS", "4")
	t.Setenv("GRADE_VERDICT_FIELD", "verification")
	t.Setenv("GRADE_MATCH_POLICY", "true-first")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "postgres://app@localhost/app", cfg.DatabaseURL)
	assert.Equal(t, "g-key", cfg.LLMAPIKey())
	assert.Equal(t, 90*time.Minute, cfg.WolframCacheTTL)
	assert.Equal(t, 4, cfg.MaxClaims)

	opts, err := cfg.GradeOptions()
	require.NoError(t, err)
	assert.Equal(t, grade.Options{Field: grade.FieldVerification, Match: grade.MatchTrueFirst}, opts)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{LLMProvider: "openai", MaxClaims: 1, Concurrency: 1, WorkerConcurrency: 1}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad provider", func(c *Config) { c.LLMProvider = "llama" }, "unknown llm provider"},
		{"bad field", func(c *Config) { c.VerdictField = "rating" }, "unknown policy: verdict field"},
		{"bad policy", func(c *Config) { c.MatchPolicy = "coin-flip" }, "unknown policy: match policy"},
		{"zero claims", func(c *Config) { c.MaxClaims = 0 }, "FACTCHECK_MAX_CLAIMS"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "FACTCHECK_CONCURRENCY"},
		{"zero workers", func(c *Config) { c.WorkerConcurrency = 0 }, "WORKER_CONCURRENCY"},
		{"negative ttl", func(c *Config) { c.WolframCacheTTL = -time.Second }, "WOLFRAM_CACHE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
