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


package rag

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/poiesic/ragpipe/core"
)

const generationProcess = "response_generation"

const promptTemplate = `You are a helpful AI assistant. Use the following context to answer the question.
If the context contains multiple relevant pieces of information, make sure to synthesize them all.
If you cannot find sufficient information in the context, please say so.

Relevant context:
%s

Conversation history:
%s

Question: %s`

// noHistoryPlaceholder stands in for the history block when the caller
// disables conversation history.
const noHistoryPlaceholder = "No history used"

var errNoDocuments = errors.New("no documents ingested yet")

// GenerateOption adjusts a single Generate call.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	stream     bool
	useHistory bool
	topK       int
}

// Streaming makes the sequence yield model fragments as they arrive
// instead of one complete answer.
func Streaming() GenerateOption {
	return func(c *generateConfig) { c.stream = true }
}

// WithoutHistory replaces the conversation-history block of the prompt
// with a fixed placeholder. The question and answer are still recorded.
func WithoutHistory() GenerateOption {
	return func(c *generateConfig) { c.useHistory = false }
}

// WithK sets the retrieval depth for this call.
func WithK(k int) GenerateOption {
	return func(c *generateConfig) { c.topK = k }
}

// Generate answers a question grounded in the stored documents.
//
// The returned sequence is lazy: nothing happens until it is iterated.
// In non-streaming mode it yields exactly one element holding the full
// answer; in streaming mode it yields fragments whose concatenation is
// the answer. The question is recorded as a human turn before the model
// is called, so a failed call still leaves the question in history. The
// assistant turn is recorded only after the sequence completes; an
// abandoned stream records no assistant turn.
func (e *Engine) Generate(ctx context.Context, question string, opts ...GenerateOption) iter.Seq2[string, error] {
	cfg := generateConfig{useHistory: true, topK: e.topK}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(string, error) bool) {
		count, err := e.store.Count(ctx)
		if err == nil && count == 0 {
			err = errNoDocuments
		}
		if err != nil {
			yield("", e.failGeneration(question, core.NewVectorStoreError("retrieval", err)))
			return
		}

		if err := core.ValidateTopK(cfg.topK, e.maxTopK); err != nil {
			yield("", e.failGeneration(question, err))
			return
		}

		e.recorder.Started(generationProcess, map[string]any{"question": question})

		e.log.AddMessage(core.RoleHuman, question)

		chunks, err := e.store.Query(ctx, question, cfg.topK)
		if err != nil {
			yield("", e.failGeneration(question, core.NewVectorStoreError("retrieval", err)))
			return
		}

		history := noHistoryPlaceholder
		if cfg.useHistory {
			history = e.log.FormatHistory()
		}
		prompt := buildPrompt(chunks, history, question)

		if cfg.stream {
			e.generateStream(ctx, question, prompt, yield)
			return
		}

		answer, err := e.completer.Complete(ctx, prompt)
		if err != nil {
			yield("", e.failGeneration(question, e.classifyModelError(err)))
			return
		}
		e.log.AddMessage(core.RoleAssistant, answer)
		yield(answer, nil)
	}
}

func (e *Engine) generateStream(ctx context.Context, question, prompt string, yield func(string, error) bool) {
	// The producer outlives an abandoned iterator unless its context is
	// cancelled with it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fragments, errc := e.completer.Stream(ctx, prompt)

	var sb strings.Builder
	for fragment := range fragments {
		sb.WriteString(fragment)
		if !yield(fragment, nil) {
			// Caller walked away mid-stream; partial output is not
			// recorded as an assistant turn.
			return
		}
	}

	if err := <-errc; err != nil {
		yield("", e.failGeneration(question, e.classifyModelError(err)))
		return
	}

	e.log.AddMessage(core.RoleAssistant, sb.String())
}

// GenerateText drains Generate and returns the complete answer.
func (e *Engine) GenerateText(ctx context.Context, question string, opts ...GenerateOption) (string, error) {
	var sb strings.Builder
	for fragment, err := range e.Generate(ctx, question, opts...) {
		if err != nil {
			return "", err
		}
		sb.WriteString(fragment)
	}
	return sb.String(), nil
}

// classifyModelError maps a raw provider failure onto the error
// taxonomy: token or length limit complaints become token-limit errors,
// everything else is an inference error.
func (e *Engine) classifyModelError(err error) error {
	if _, ok := core.AsError(err); ok {
		return err
	}
	text := strings.ToLower(err.Error())
	if strings.Contains(text, "token limit") || strings.Contains(text, "context length") ||
		strings.Contains(text, "maximum context") {
		return core.NewModelTokenLimitError(e.completer.ModelName(), 0, 0, err)
	}
	return core.NewModelInferenceError(e.completer.ModelName(), err)
}

func (e *Engine) failGeneration(question string, err error) error {
	e.recorder.Failed(generationProcess, map[string]any{
		"question": question,
		"error":    err.Error(),
	})
	return err
}

func buildPrompt(chunks []core.Chunk, history, question string) string {
	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Contents
	}
	return fmt.Sprintf(promptTemplate, strings.Join(contents, "\n\n"), history, question)
}
