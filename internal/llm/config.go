package llm

import (
	"os"
	"strconv"
	"time"
)

// #region config

// Config holds parameters for the suggestion model endpoint.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// DefaultConfig returns default model configuration for Groq's
// OpenAI-compatible endpoint. Reads from env vars: GROQ_API_KEY,
// GROQ_MODEL, GROQ_BASE_URL, GROQ_TIMEOUT.
func DefaultConfig() Config {
	cfg := Config{
		APIKey:    os.Getenv("GROQ_API_KEY"),
		Model:     "llama-3.3-70b-versatile",
		BaseURL:   "https://api.groq.com/openai/v1",
		MaxTokens: 200,
		Timeout:   30 * time.Second,
	}
	if v := os.Getenv("GROQ_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("GROQ_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("GROQ_TIMEOUT"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.Timeout = time.Duration(sec) * time.Second
		}
	}
	return cfg
}

// #endregion config
