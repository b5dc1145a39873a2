package openai

import "github.com/poiesic/ragpipe/ai"

// Provider variants. Each fixes the base endpoint and default model family
// of an OpenAI-wire-compatible backend while exposing the identical adapter
// surface. Explicit config values always win over variant defaults.
const (
	zhipuBaseURL = "https://open.bigmodel.cn/api/paas/v4"
	xaiBaseURL   = "https://api.x.ai/v1"

	defaultZhipuModel          = "glm-4-flash"
	defaultZhipuEmbeddingModel = "embedding-3"
	defaultXAIModel            = "grok-2-1212"
)

func withDefaults(config *ai.ModelConfig, baseURL, model string) *ai.ModelConfig {
	if config.BaseURL == "" {
		config.BaseURL = baseURL
	}
	if config.Model == "" && model != "" {
		config.Model = model
	}
	return config
}

// NewZhipuCompleter creates a completion adapter against the ZhipuAI platform.
func NewZhipuCompleter(config *ai.ModelConfig) (ai.Completer, error) {
	return newCompleter(withDefaults(config, zhipuBaseURL, defaultZhipuModel))
}

// NewZhipuEmbedder creates an embedding adapter against the ZhipuAI platform.
func NewZhipuEmbedder(config *ai.ModelConfig) (ai.Embedder, error) {
	return newEmbedder(withDefaults(config, zhipuBaseURL, defaultZhipuEmbeddingModel))
}

// NewXAICompleter creates a completion adapter against the x.ai API.
func NewXAICompleter(config *ai.ModelConfig) (ai.Completer, error) {
	return newCompleter(withDefaults(config, xaiBaseURL, defaultXAIModel))
}

// NewXAIEmbedder creates an embedding adapter against the x.ai API.
func NewXAIEmbedder(config *ai.ModelConfig) (ai.Embedder, error) {
	return newEmbedder(withDefaults(config, xaiBaseURL, ""))
}
