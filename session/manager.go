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


// Package session maintains a registry of independent RAG engines, one
// per session id, each with its own model adapters, vector store, and
// conversation log.
package session

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/poiesic/ragpipe/ai"
	"github.com/poiesic/ragpipe/ai/openai"
	"github.com/poiesic/ragpipe/core"
	"github.com/poiesic/ragpipe/rag"
	"github.com/poiesic/ragpipe/vectorstore"
	"github.com/poiesic/ragpipe/vectorstore/memory"
)

// StoreFactory builds the vector store for a new session.
type StoreFactory func(sessionID string, embedder ai.Embedder) (vectorstore.Store, error)

// Manager is a concurrency-safe registry of RAG sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*rag.Engine

	storeFactory StoreFactory
	engineOpts   []rag.Option
	logger       *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithStoreFactory overrides how per-session vector stores are built.
// The default is an in-memory store.
func WithStoreFactory(f StoreFactory) Option {
	return func(m *Manager) {
		if f != nil {
			m.storeFactory = f
		}
	}
}

// WithEngineOptions passes extra options to every engine the manager
// creates.
func WithEngineOptions(opts ...rag.Option) Option {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// NewManager creates an empty session registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*rag.Engine),
		storeFactory: func(sessionID string, embedder ai.Embedder) (vectorstore.Store, error) {
			return memory.NewStore(embedder)
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create builds a session's model adapters, vector store, and engine,
// and registers it under id. Creating a session under an id that is
// already registered replaces the old session; the replacement is
// logged at warn level.
func (m *Manager) Create(id string, provider ai.Provider, modelConfig, embeddingConfig *ai.ModelConfig) (*rag.Engine, error) {
	completer, embedder, err := buildAdapters(provider, modelConfig, embeddingConfig)
	if err != nil {
		return nil, err
	}

	store, err := m.storeFactory(id, embedder)
	if err != nil {
		return nil, core.NewVectorStoreError("store_creation", err)
	}

	opts := append([]rag.Option{rag.WithLogger(m.logger)}, m.engineOpts...)
	engine, err := rag.NewEngine(completer, store, opts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if _, exists := m.sessions[id]; exists {
		m.logger.Warn("replacing existing session", "session_id", id)
	}
	m.sessions[id] = engine
	m.mu.Unlock()

	return engine, nil
}

// buildAdapters constructs the completion and embedding adapters for
// the given provider.
func buildAdapters(provider ai.Provider, modelConfig, embeddingConfig *ai.ModelConfig) (ai.Completer, ai.Embedder, error) {
	var (
		completer ai.Completer
		embedder  ai.Embedder
		err       error
	)

	switch provider {
	case ai.ProviderOpenAI:
		if completer, err = openai.NewCompleter(modelConfig); err == nil {
			embedder, err = openai.NewEmbedder(embeddingConfig)
		}
	case ai.ProviderZhipu:
		if completer, err = openai.NewZhipuCompleter(modelConfig); err == nil {
			embedder, err = openai.NewZhipuEmbedder(embeddingConfig)
		}
	case ai.ProviderXAI:
		if completer, err = openai.NewXAICompleter(modelConfig); err == nil {
			embedder, err = openai.NewXAIEmbedder(embeddingConfig)
		}
	default:
		return nil, nil, core.NewValidationError(
			fmt.Sprintf("Unsupported model type: %s", provider),
			map[string]any{"provider": string(provider)})
	}

	if err != nil {
		return nil, nil, err
	}
	return completer, embedder, nil
}

// Get returns the session registered under id.
func (m *Manager) Get(id string) (*rag.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	engine, ok := m.sessions[id]
	if !ok {
		return nil, core.NewSessionNotFoundError(id)
	}
	return engine, nil
}

// List returns all registered session ids in sorted order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Remove drops the session registered under id. Removing an unknown id
// is a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len reports the number of registered sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
