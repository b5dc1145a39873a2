package ai

import (
	"testing"

	"github.com/poiesic/ragpipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Empty(t, cfg.APIKey)
	assert.Zero(t, cfg.MaxTokens)
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithAPIKey("sk-test"),
		WithBaseURL("https://api.example.com/v1/"),
		WithModel("gpt-4o-mini"),
		WithTemperature(0.2),
		WithMaxTokens(2048),
		WithAdditionalParams(map[string]any{"top_p": 0.9}),
	)

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.Equal(t, 0.9, cfg.AdditionalParams["top_p"])
}

func TestConfigNormalize(t *testing.T) {
	cfg := NewConfig(WithBaseURL(" https://api.example.com/v1/ "), WithModel(" m "))
	cfg.Normalize()
	assert.Equal(t, "https://api.example.com/v1", cfg.BaseURL)
	assert.Equal(t, "m", cfg.Model)
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"), WithModel("gpt-4o-mini"))
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := NewConfig(WithModel("gpt-4o-mini"))
		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, core.CodeConfiguration, core.CodeOf(err))
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"))
		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, core.CodeConfiguration, core.CodeOf(err))
	})

	t.Run("temperature out of range", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"), WithModel("m"), WithTemperature(3.5))
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative max tokens", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"), WithModel("m"), WithMaxTokens(-1))
		assert.Error(t, cfg.Validate())
	})
}
