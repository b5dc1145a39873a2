// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"strings"

	"github.com/poiesic/ragpipe/core"
)

// Provider identifies a backend provider variant. All variants expose an
// identical adapter surface; the orchestration core never branches on
// provider identity.
type Provider string

const (
	// ProviderOpenAI is the OpenAI API or any endpoint speaking its wire format.
	ProviderOpenAI Provider = "openai"
	// ProviderZhipu is the ZhipuAI open platform.
	ProviderZhipu Provider = "zhipu"
	// ProviderXAI is the x.ai API.
	ProviderXAI Provider = "xai"
)

// ModelConfig holds the immutable configuration for one adapter instance.
// It is supplied once at adapter construction and never mutated.
type ModelConfig struct {
	// APIKey is the provider credential. Required.
	APIKey string

	// BaseURL optionally overrides the provider's default endpoint.
	// Example: "https://open.bigmodel.cn/api/paas/v4"
	BaseURL string

	// Model is the model identifier. Required.
	// Example: "gpt-4o-mini", "glm-4-flash", "text-embedding-3-small"
	Model string

	// Temperature controls sampling randomness. Default: 0.7.
	Temperature float64

	// MaxTokens optionally caps the completion length. Zero means no cap.
	MaxTokens int

	// AdditionalParams carries free-form provider-specific parameters.
	AdditionalParams map[string]any
}

// ConfigOption is a functional option for building a ModelConfig.
type ConfigOption func(*ModelConfig)

// WithAPIKey sets the provider credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *ModelConfig) {
		c.APIKey = key
	}
}

// WithBaseURL overrides the provider's default endpoint.
func WithBaseURL(url string) ConfigOption {
	return func(c *ModelConfig) {
		c.BaseURL = url
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *ModelConfig) {
		c.Model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *ModelConfig) {
		c.Temperature = temperature
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(maxTokens int) ConfigOption {
	return func(c *ModelConfig) {
		c.MaxTokens = maxTokens
	}
}

// WithAdditionalParams attaches free-form provider parameters.
func WithAdditionalParams(params map[string]any) ConfigOption {
	return func(c *ModelConfig) {
		c.AdditionalParams = params
	}
}

// NewConfig creates a ModelConfig with defaults and applies the options.
func NewConfig(opts ...ConfigOption) *ModelConfig {
	cfg := &ModelConfig{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in canonical form. Trailing
// slashes on the base URL are stripped so path joining stays predictable.
func (c *ModelConfig) Normalize() {
	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	c.Model = strings.TrimSpace(c.Model)
}

// Validate checks that the configuration is complete enough to construct an
// adapter. It normalizes first. Failures are configuration errors: fatal
// for the session being built, never retried.
func (c *ModelConfig) Validate() error {
	c.Normalize()

	if c.APIKey == "" {
		return core.NewConfigurationError("model config: APIKey is required", nil)
	}
	if c.Model == "" {
		return core.NewConfigurationError("model config: Model is required", nil)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return core.NewConfigurationError("model config: Temperature must be between 0 and 2", nil)
	}
	if c.MaxTokens < 0 {
		return core.NewConfigurationError("model config: MaxTokens cannot be negative", nil)
	}
	return nil
}
