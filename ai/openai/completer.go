package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/ragpipe/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client      llms.Model
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

var _ ai.Completer = (*Completer)(nil)

// newCompleter is an internal constructor that returns the concrete type.
func newCompleter(config *ai.ModelConfig) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:      client,
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		logger:      slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a completion adapter for an OpenAI-compatible backend.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.ModelConfig) (ai.Completer, error) {
	return newCompleter(config)
}

// ModelName reports the configured model identifier.
func (c *Completer) ModelName() string {
	return c.model
}

func (c *Completer) callOptions(extra ...llms.CallOption) []llms.CallOption {
	opts := []llms.CallOption{llms.WithTemperature(c.temperature)}
	if c.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.maxTokens))
	}
	return append(opts, extra...)
}

func promptContent(prompt string) []llms.MessageContent {
	return []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}
}

// Complete sends a prompt and returns the full generated text.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("generating completion", "model", c.model, "prompt_length", len(prompt))

	response, err := c.client.GenerateContent(ctx, promptContent(prompt), c.callOptions()...)
	if err != nil {
		c.logger.Error("completion failed", "model", c.model, "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		return "", errors.New("model returned no choices")
	}

	return response.Choices[0].Content, nil
}

// Stream sends a prompt and returns text fragments as the model emits them.
// The fragment channel is closed when the stream ends; the error channel
// then carries the terminal error, if any.
func (c *Completer) Stream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	c.logger.Debug("generating streaming completion", "model", c.model, "prompt_length", len(prompt))

	fragments := make(chan string, 16)
	errc := make(chan error, 1)

	streamFunc := llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		select {
		case fragments <- string(chunk):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	go func() {
		defer close(errc)
		_, err := c.client.GenerateContent(ctx, promptContent(prompt), c.callOptions(streamFunc)...)
		close(fragments)
		if err != nil {
			c.logger.Error("streaming completion failed", "model", c.model, "err", err)
			errc <- err
		}
	}()

	return fragments, errc
}
