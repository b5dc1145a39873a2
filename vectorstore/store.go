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


// Package vectorstore defines the chunk-storage boundary of the RAG
// pipeline. A store owns its embedding adapter: callers add and query by
// text, and the store handles vectors internally. A store with zero chunks
// is "absent" in pipeline terms; the first successful Add makes it present.
package vectorstore

import (
	"context"

	"github.com/poiesic/ragpipe/core"
)

// Store holds embedded chunks for exactly one session.
// Implementations must be safe for concurrent use.
type Store interface {
	// Add embeds and stores chunks. Chunks already present under the same
	// ID are appended regardless; deduplication is not a store concern.
	// No partial commits: either every chunk in the batch is stored or the
	// store is left in its prior state.
	Add(ctx context.Context, chunks []core.Chunk) error

	// Query returns up to k chunks ranked by similarity to the query text,
	// most similar first.
	Query(ctx context.Context, text string, k int) ([]core.Chunk, error)

	// Count reports the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Clear removes all chunks.
	Clear(ctx context.Context) error
}
