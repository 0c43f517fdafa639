// Package profile loads and validates the server configuration from
// environment variables.
package profile

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	Mode    string // dev or prod
	Addr    string
	Port    int
	Version string

	// LINE channel configuration
	LineChannelSecret string
	LineAccessToken   string
	BotName           string
	BotIconURL        string
	RequireMention    bool // group messages must @-mention the bot

	// LLM configuration (OpenAI-compatible protocol)
	LLMProvider string // groq, openai, deepseek, ollama, or any compatible
	LLMAPIKey   string
	LLMBaseURL  string // optional, has default per provider
	LLMModel    string
	LLMTimeout  int // request timeout in seconds (default: 120)

	// Conversation memory
	HistoryLimit  int    // messages retained per user (default: 20)
	ContextWindow int    // messages replayed to the LLM (default: 10)
	Timezone      string // IANA name used for time expressions
}

// Provider default configurations for LLM.
// Used when FAMILYGROUP_LLM_BASE_URL or _MODEL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"groq": {
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   "llama-3.1-8b-instant",
	},
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrLegacy checks the primary key first, then a legacy alias.
func getEnvOrLegacy(key, legacyKey, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := os.Getenv(legacyKey); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	// LINE channel. Legacy LINE_* names are honored for deployments
	// migrated from the old bot.
	p.LineChannelSecret = getEnvOrLegacy("FAMILYGROUP_LINE_CHANNEL_SECRET", "LINE_CHANNEL_SECRET", "")
	p.LineAccessToken = getEnvOrLegacy("FAMILYGROUP_LINE_ACCESS_TOKEN", "LINE_CHANNEL_ACCESS_TOKEN", "")
	p.BotName = getEnvOrDefault("FAMILYGROUP_BOT_NAME", "Kevin AI")
	p.BotIconURL = getEnvOrDefault("FAMILYGROUP_BOT_ICON_URL", "")
	p.RequireMention = getEnvOrDefault("FAMILYGROUP_REQUIRE_MENTION", "true") == "true"

	// LLM configuration
	p.LLMProvider = getEnvOrDefault("FAMILYGROUP_LLM_PROVIDER", "groq")
	p.LLMAPIKey = getEnvOrLegacy("FAMILYGROUP_LLM_API_KEY", "GROQ_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("FAMILYGROUP_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("FAMILYGROUP_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("FAMILYGROUP_LLM_TIMEOUT_SECONDS", 120)

	if p.LLMProvider != "" {
		if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
			slog.Info("using custom LLM provider", "provider", p.LLMProvider)
		}
	}
	if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
		if p.LLMBaseURL == "" {
			p.LLMBaseURL = defaults.BaseURL
		}
		if p.LLMModel == "" {
			p.LLMModel = defaults.Model
		}
	}

	// Conversation memory
	p.HistoryLimit = getEnvOrDefaultInt("FAMILYGROUP_HISTORY_LIMIT", 20)
	p.ContextWindow = getEnvOrDefaultInt("FAMILYGROUP_CONTEXT_WINDOW", 10)
	p.Timezone = getEnvOrDefault("FAMILYGROUP_TIMEZONE", "Asia/Taipei")
}

// Validate normalizes the profile and rejects configurations missing
// required credentials.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.LineChannelSecret == "" {
		return errors.New("LINE channel secret is required (FAMILYGROUP_LINE_CHANNEL_SECRET)")
	}
	if p.LineAccessToken == "" {
		return errors.New("LINE channel access token is required (FAMILYGROUP_LINE_ACCESS_TOKEN)")
	}
	if p.LLMAPIKey == "" && p.LLMProvider != "ollama" {
		return errors.Errorf("LLM API key is required for provider %q (FAMILYGROUP_LLM_API_KEY)", p.LLMProvider)
	}

	if p.Port <= 0 || p.Port > 65535 {
		p.Port = 3000
	}
	if p.HistoryLimit <= 0 {
		p.HistoryLimit = 20
	}
	if p.ContextWindow <= 0 || p.ContextWindow > p.HistoryLimit {
		p.ContextWindow = min(10, p.HistoryLimit)
	}

	return nil
}
