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


// Package rag orchestrates retrieval-augmented generation: document
// ingestion into a vector store and grounded answer generation against
// a language model, with conversation history woven into each prompt.
package rag

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/ragpipe/ai"
	"github.com/poiesic/ragpipe/conversation"
	"github.com/poiesic/ragpipe/event"
	"github.com/poiesic/ragpipe/loader"
	"github.com/poiesic/ragpipe/vectorstore"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 2000

	// DefaultChunkOverlap is the character overlap between adjacent chunks.
	DefaultChunkOverlap = 400

	// DefaultTopK is the number of chunks retrieved per question.
	DefaultTopK = 5

	// MaxTopK bounds the retrieval depth a caller may request.
	MaxTopK = 10
)

var (
	// ErrCompleterRequired is returned when a completer is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")
)

// Engine ties one language model, one vector store, and one
// conversation log into a RAG pipeline. An Engine is safe for
// concurrent use to the extent its store and log are; generation and
// ingestion themselves run sequentially per call.
type Engine struct {
	completer ai.Completer
	store     vectorstore.Store
	log       *conversation.Log
	loader    loader.Loader
	splitter  textsplitter.RecursiveCharacter
	recorder  *event.Recorder
	logger    *slog.Logger

	chunkSize    int
	chunkOverlap int
	topK         int
	maxTopK      int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLoader sets the document loader. Default is loader.NewDefault().
func WithLoader(l loader.Loader) Option {
	return func(e *Engine) {
		if l != nil {
			e.loader = l
		}
	}
}

// WithConversationLog sets the conversation log backing history.
func WithConversationLog(log *conversation.Log) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRecorder sets the process-event recorder.
func WithRecorder(r *event.Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// WithChunking overrides the splitter's chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.chunkSize = size
		}
		if overlap >= 0 {
			e.chunkOverlap = overlap
		}
	}
}

// WithTopK sets the default retrieval depth.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// NewEngine creates a RAG engine around the given model and store.
func NewEngine(completer ai.Completer, store vectorstore.Store, opts ...Option) (*Engine, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	e := &Engine{
		completer:    completer,
		store:        store,
		log:          conversation.NewLog(),
		loader:       loader.NewDefault(),
		logger:       slog.Default(),
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		topK:         DefaultTopK,
		maxTopK:      MaxTopK,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.recorder == nil {
		e.recorder = event.NewRecorder(event.WithLogger(e.logger))
	}

	e.splitter = textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(e.chunkSize),
		textsplitter.WithChunkOverlap(e.chunkOverlap),
	)

	return e, nil
}

// Conversation exposes the engine's conversation log, for history
// persistence and inspection.
func (e *Engine) Conversation() *conversation.Log {
	return e.log
}

// DocumentCount reports the number of chunks currently stored.
func (e *Engine) DocumentCount(ctx context.Context) (int, error) {
	return e.store.Count(ctx)
}

// ClearStore removes all stored chunks.
func (e *Engine) ClearStore(ctx context.Context) error {
	return e.store.Clear(ctx)
}
