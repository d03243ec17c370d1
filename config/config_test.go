package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LLMProvider != "openai" {
		t.Errorf("expected openai default provider, got %s", cfg.LLMProvider)
	}
	if cfg.RedisURL == "" {
		t.Error("expected a default redis URL")
	}
	if !cfg.CacheEnabled {
		t.Error("expected cache enabled by default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "deepseek")
	t.Setenv("LLM_MODEL_ID", "deepseek-chat")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("LLM_MAX_TOKENS", "2048")
	t.Setenv("CACHE_ENABLED", "false")

	cfg := DefaultConfig()

	if cfg.LLMProvider != "deepseek" {
		t.Errorf("LLM_PROVIDER override ignored, got %s", cfg.LLMProvider)
	}
	if cfg.LLMModelID != "deepseek-chat" {
		t.Errorf("LLM_MODEL_ID override ignored, got %s", cfg.LLMModelID)
	}
	if cfg.RedisURL != "redis://cache:6379" {
		t.Errorf("REDIS_URL override ignored, got %s", cfg.RedisURL)
	}
	if cfg.LLMMaxTokens != 2048 {
		t.Errorf("LLM_MAX_TOKENS override ignored, got %d", cfg.LLMMaxTokens)
	}
	if cfg.CacheEnabled {
		t.Error("CACHE_ENABLED=false ignored")
	}
}

func TestRedisHostFallback(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis.internal")

	cfg := DefaultConfig()

	if cfg.RedisURL != "redis://redis.internal:6379" {
		t.Errorf("REDIS_HOST fallback ignored, got %s", cfg.RedisURL)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure with no API keys")
	}

	cfg.LLMAPIKey = "sk-test"
	cfg.PolygonAPIKey = "pk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}
