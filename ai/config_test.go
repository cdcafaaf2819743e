package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AnalyzerHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AssistantHost)
	assert.Equal(t, "qwen2.5-vl:7b", cfg.AnalyzerModel)
	assert.Equal(t, "qwen2.5:3b", cfg.AssistantModel)
	assert.Equal(t, "none", cfg.APIToken)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, "http://localhost:11434/v1", cfg.AnalyzerHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.AssistantHost)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.AnalyzerHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.AssistantHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithAnalyzerHost("http://analyze:8080/v1"),
			WithAssistantHost("http://assist:9090/v1"),
		)

		assert.Equal(t, "http://analyze:8080/v1", cfg.AnalyzerHost)
		assert.Equal(t, "http://assist:9090/v1", cfg.AssistantHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithAnalyzerModel("gpt-4o"),
			WithAssistantModel("gpt-4o-mini"),
		)

		assert.Equal(t, "gpt-4o", cfg.AnalyzerModel)
		assert.Equal(t, "gpt-4o-mini", cfg.AssistantModel)
	})

	t.Run("with api token", func(t *testing.T) {
		cfg := NewConfig(WithAPIToken("sk-test"))

		assert.Equal(t, "sk-test", cfg.APIToken)
	})
}

func TestConfigNormalize(t *testing.T) {
	testCases := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trims trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"keeps existing v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tc.host))
			cfg.Normalize()
			assert.Equal(t, tc.want, cfg.AnalyzerHost)
			assert.Equal(t, tc.want, cfg.AssistantHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid defaults", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		testCases := []struct {
			name   string
			mutate func(*Config)
		}{
			{"analyzer host", func(c *Config) { c.AnalyzerHost = "" }},
			{"assistant host", func(c *Config) { c.AssistantHost = "" }},
			{"analyzer model", func(c *Config) { c.AnalyzerModel = "" }},
			{"assistant model", func(c *Config) { c.AssistantModel = "" }},
			{"api token", func(c *Config) { c.APIToken = "" }},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				cfg := DefaultConfig()
				tc.mutate(cfg)
				assert.Error(t, cfg.Validate())
			})
		}
	})

	t.Run("validate normalizes", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:9100"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:9100/v1", cfg.AnalyzerHost)
	})
}
