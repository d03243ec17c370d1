package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// LLM configuration
	LLMProvider  string `json:"llm_provider"`
	LLMModelID   string `json:"llm_model_id"`
	LLMAPIKey    string `json:"llm_api_key"`
	LLMBaseURL   string `json:"llm_base_url"`
	LLMMaxTokens int    `json:"llm_max_tokens"`

	// Stock data provider
	PolygonAPIKey string `json:"polygon_api_key"`

	// Redis (cache, cancellation keys, inbound stream)
	RedisURL string `json:"redis_url"`

	CacheEnabled bool `json:"cache_enabled"`

	Port  int  `json:"port"`
	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		LLMProvider:  "openai",
		LLMModelID:   "gpt-4o",
		LLMBaseURL:   "https://api.openai.com/v1",
		LLMMaxTokens: 4096,

		RedisURL: "redis://localhost:6379",

		CacheEnabled: true,

		Port:  8003,
		Debug: false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("LLM_MODEL_ID"); val != "" {
		c.LLMModelID = val
	}
	if val := os.Getenv("LLM_API_KEY"); val != "" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("LLM_BASE_URL"); val != "" {
		c.LLMBaseURL = val
	}
	if val := os.Getenv("LLM_MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.LLMMaxTokens = v
		}
	}

	if val := os.Getenv("POLYGON_API_KEY"); val != "" {
		c.PolygonAPIKey = val
	}

	if val := os.Getenv("REDIS_URL"); val != "" {
		c.RedisURL = val
	} else if host := os.Getenv("REDIS_HOST"); host != "" {
		c.RedisURL = fmt.Sprintf("redis://%s:6379", host)
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}

	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Port = port
		}
	}
	if val := os.Getenv("STOCKBOT_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

func (c *Config) Validate() error {
	if c.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY is not set")
	}
	if c.PolygonAPIKey == "" {
		return fmt.Errorf("POLYGON_API_KEY is not set")
	}
	return nil
}
