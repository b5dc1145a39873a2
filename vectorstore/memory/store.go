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


// Package memory provides an in-process vectorstore.Store backed by a
// slice with exact cosine-similarity scan. Suitable for tests and
// short-lived sessions; use the badger store for persistence.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/poiesic/ragpipe/ai"
	"github.com/poiesic/ragpipe/core"
	"github.com/poiesic/ragpipe/vectorstore"
)

// ErrEmbedderRequired is returned when an embedder is not provided.
var ErrEmbedderRequired = errors.New("embedder required")

// Store is an in-memory chunk store with exact top-k retrieval.
type Store struct {
	mu       sync.RWMutex
	chunks   []core.Chunk
	embedder ai.Embedder
}

var _ vectorstore.Store = (*Store)(nil)

// NewStore creates an empty in-memory store bound to an embedder.
func NewStore(embedder ai.Embedder) (*Store, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &Store{embedder: embedder}, nil
}

// Add embeds and stores chunks. The batch is embedded before the store is
// touched, so a failing embedder leaves the store unchanged.
func (s *Store) Add(ctx context.Context, chunks []core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Contents
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return errors.New("embedder returned wrong number of vectors")
	}

	stored := make([]core.Chunk, len(chunks))
	for i, chunk := range chunks {
		chunk.Vector = vectors[i]
		stored[i] = chunk
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, stored...)
	return nil
}

// Query returns up to k chunks ranked by cosine similarity to text.
func (s *Store) Query(ctx context.Context, text string, k int) ([]core.Chunk, error) {
	if k < 1 {
		return nil, errors.New("k must be positive")
	}

	queryVector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		chunk core.Chunk
		score float32
	}
	candidates := make([]scored, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		candidates = append(candidates, scored{
			chunk: chunk,
			score: vectorstore.CosineSimilarity(queryVector, chunk.Vector),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	results := make([]core.Chunk, k)
	for i := 0; i < k; i++ {
		results[i] = candidates[i].chunk
	}
	return results, nil
}

// Count reports the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Clear removes all chunks.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	return nil
}
