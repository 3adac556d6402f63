package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		LLMProvider:      ProviderGroq,
		GroqAPIKey:       "gk",
		TwilioAccountSID: "AC123",
		TwilioAuthToken:  "tok",
		Recipients:       []string{"whatsapp:+15550001111"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid groq", func(c *Config) {}, false},
		{"valid anthropic", func(c *Config) {
			c.LLMProvider = ProviderAnthropic
			c.AnthropicAPIKey = "ak"
		}, false},
		{"missing groq key", func(c *Config) { c.GroqAPIKey = "" }, true},
		{"missing anthropic key", func(c *Config) {
			c.LLMProvider = ProviderAnthropic
		}, true},
		{"unknown provider", func(c *Config) { c.LLMProvider = "other" }, true},
		{"missing twilio sid", func(c *Config) { c.TwilioAccountSID = "" }, true},
		{"missing twilio token", func(c *Config) { c.TwilioAuthToken = "" }, true},
		{"no recipients", func(c *Config) { c.Recipients = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_RecipientList(t *testing.T) {
	t.Setenv("RECIPIENTS", "whatsapp:+15550001111, whatsapp:+15550002222 ,")
	cfg := Load()
	if len(cfg.Recipients) != 2 {
		t.Fatalf("expected 2 recipients, got %v", cfg.Recipients)
	}
	if cfg.Recipients[1] != "whatsapp:+15550002222" {
		t.Errorf("recipient not trimmed: %q", cfg.Recipients[1])
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.PromptChunkSize != 4000 || cfg.MessageChunkSize != 1600 {
		t.Errorf("chunk defaults: %d, %d", cfg.PromptChunkSize, cfg.MessageChunkSize)
	}
	if cfg.SendMaxAttempts != 3 || cfg.SendRetryDelay != 5*time.Second {
		t.Errorf("retry defaults: %d, %s", cfg.SendMaxAttempts, cfg.SendRetryDelay)
	}
}
