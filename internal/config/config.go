package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider selects the summarization backend.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port string

	// Auth for the HTTP API.
	APIKey string

	// Content source
	WikiBaseURL string

	// Summarization provider
	LLMProvider     string
	LLMModel        string
	GroqAPIKey      string
	AnthropicAPIKey string

	// Messaging
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	Recipients       []string

	// Chunk budgets per stage
	PromptChunkSize  int
	MessageChunkSize int

	// Send retry policy
	SendMaxAttempts int
	SendRetryDelay  time.Duration

	// Run state
	RunTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("DAILYBRIEF_API_KEY"),

		WikiBaseURL: envOr("WIKI_BASE_URL", "https://en.wikipedia.org"),

		LLMProvider:     envOr("LLM_PROVIDER", ProviderGroq),
		LLMModel:        os.Getenv("LLM_MODEL"),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       envOr("TWILIO_FROM", "whatsapp:+14155238886"),
		Recipients:       envList("RECIPIENTS"),

		PromptChunkSize:  envInt("PROMPT_CHUNK_SIZE", 4000),
		MessageChunkSize: envInt("MESSAGE_CHUNK_SIZE", 1600),

		SendMaxAttempts: envInt("SEND_MAX_ATTEMPTS", 3),
		SendRetryDelay:  envDuration("SEND_RETRY_DELAY", 5*time.Second),

		RunTTL: envDuration("RUN_TTL", 24*time.Hour),
	}

	if cfg.PromptChunkSize <= 0 {
		cfg.PromptChunkSize = 4000
	}
	if cfg.MessageChunkSize <= 0 {
		cfg.MessageChunkSize = 1600
	}
	if cfg.SendMaxAttempts <= 0 {
		cfg.SendMaxAttempts = 3
	}
	if cfg.SendRetryDelay <= 0 {
		cfg.SendRetryDelay = 5 * time.Second
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = 24 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.TwilioAccountSID == "" {
		return fmt.Errorf("TWILIO_ACCOUNT_SID is required")
	}
	if c.TwilioAuthToken == "" {
		return fmt.Errorf("TWILIO_AUTH_TOKEN is required")
	}
	if len(c.Recipients) == 0 {
		return fmt.Errorf("RECIPIENTS is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList parses a comma-separated value, dropping empty entries.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
