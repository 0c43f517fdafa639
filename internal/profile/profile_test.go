package profile

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDefaults(t *testing.T) {
	clearEnvVars(t)

	profile := &Profile{}
	profile.FromEnv()

	tests := []struct {
		name     string
		expected string
		actual   string
	}{
		{"BotName default", "Kevin AI", profile.BotName},
		{"LLMProvider default", "groq", profile.LLMProvider},
		{"LLMBaseURL default", "https://api.groq.com/openai/v1", profile.LLMBaseURL},
		{"LLMModel default", "llama-3.1-8b-instant", profile.LLMModel},
		{"Timezone default", "Asia/Taipei", profile.Timezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.actual)
		})
	}

	assert.True(t, profile.RequireMention)
	assert.Equal(t, 20, profile.HistoryLimit)
	assert.Equal(t, 10, profile.ContextWindow)
	assert.Equal(t, 120, profile.LLMTimeout)
}

func TestProfileFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		field    func(*Profile) string
		expected string
	}{
		{
			name:     "channel secret",
			envVar:   "FAMILYGROUP_LINE_CHANNEL_SECRET",
			envValue: "test-secret",
			field:    func(p *Profile) string { return p.LineChannelSecret },
			expected: "test-secret",
		},
		{
			name:     "legacy channel secret alias",
			envVar:   "LINE_CHANNEL_SECRET",
			envValue: "legacy-secret",
			field:    func(p *Profile) string { return p.LineChannelSecret },
			expected: "legacy-secret",
		},
		{
			name:     "legacy groq key alias",
			envVar:   "GROQ_API_KEY",
			envValue: "gsk_test",
			field:    func(p *Profile) string { return p.LLMAPIKey },
			expected: "gsk_test",
		},
		{
			name:     "bot name override",
			envVar:   "FAMILYGROUP_BOT_NAME",
			envValue: "家庭助理",
			field:    func(p *Profile) string { return p.BotName },
			expected: "家庭助理",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv(tt.envVar, tt.envValue)

			profile := &Profile{}
			profile.FromEnv()

			assert.Equal(t, tt.expected, tt.field(profile))
		})
	}
}

func TestProviderDefaultsApplied(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("FAMILYGROUP_LLM_PROVIDER", "deepseek")

	profile := &Profile{}
	profile.FromEnv()

	assert.Equal(t, "https://api.deepseek.com", profile.LLMBaseURL)
	assert.Equal(t, "deepseek-chat", profile.LLMModel)
}

func TestValidate(t *testing.T) {
	base := func() *Profile {
		return &Profile{
			Mode:              "dev",
			Port:              3000,
			LineChannelSecret: "secret",
			LineAccessToken:   "token",
			LLMProvider:       "groq",
			LLMAPIKey:         "key",
			HistoryLimit:      20,
			ContextWindow:     10,
		}
	}

	t.Run("valid profile passes", func(t *testing.T) {
		p := base()
		require.NoError(t, p.Validate())
	})

	t.Run("missing channel secret fails", func(t *testing.T) {
		p := base()
		p.LineChannelSecret = ""
		assert.Error(t, p.Validate())
	})

	t.Run("missing access token fails", func(t *testing.T) {
		p := base()
		p.LineAccessToken = ""
		assert.Error(t, p.Validate())
	})

	t.Run("missing LLM key fails for groq", func(t *testing.T) {
		p := base()
		p.LLMAPIKey = ""
		assert.Error(t, p.Validate())
	})

	t.Run("ollama does not require API key", func(t *testing.T) {
		p := base()
		p.LLMProvider = "ollama"
		p.LLMAPIKey = ""
		assert.NoError(t, p.Validate())
	})

	t.Run("context window capped at history limit", func(t *testing.T) {
		p := base()
		p.HistoryLimit = 5
		p.ContextWindow = 10
		require.NoError(t, p.Validate())
		assert.Equal(t, 5, p.ContextWindow)
	})

	t.Run("bad port falls back", func(t *testing.T) {
		p := base()
		p.Port = -1
		require.NoError(t, p.Validate())
		assert.Equal(t, 3000, p.Port)
	})
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FAMILYGROUP_LINE_CHANNEL_SECRET",
		"FAMILYGROUP_LINE_ACCESS_TOKEN",
		"LINE_CHANNEL_SECRET",
		"LINE_CHANNEL_ACCESS_TOKEN",
		"FAMILYGROUP_BOT_NAME",
		"FAMILYGROUP_BOT_ICON_URL",
		"FAMILYGROUP_REQUIRE_MENTION",
		"FAMILYGROUP_LLM_PROVIDER",
		"FAMILYGROUP_LLM_API_KEY",
		"FAMILYGROUP_LLM_BASE_URL",
		"FAMILYGROUP_LLM_MODEL",
		"FAMILYGROUP_LLM_TIMEOUT_SECONDS",
		"GROQ_API_KEY",
		"FAMILYGROUP_HISTORY_LIMIT",
		"FAMILYGROUP_CONTEXT_WINDOW",
		"FAMILYGROUP_TIMEZONE",
	} {
		// t.Setenv restores prior values; Unsetenv here needs manual restore.
		if v, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, v) })
			os.Unsetenv(key)
		}
	}
}
