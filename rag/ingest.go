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
	"strings"

	"github.com/poiesic/ragpipe/core"
)

const ingestionProcess = "document_ingestion"

// Ingest loads, splits, and stores the given document sources, in order.
//
// When the store already holds chunks and force is false the whole call
// is an idempotent no-op recorded as a single skipped event. Sources are
// processed sequentially and fail fast: the first failure is recorded as
// a failed event and returned, and later sources are not attempted.
func (e *Engine) Ingest(ctx context.Context, sources []string, force bool) error {
	count, err := e.store.Count(ctx)
	if err != nil {
		verr := core.NewVectorStoreError("count", err)
		e.recorder.Failed(ingestionProcess, map[string]any{"error": verr.Error()})
		return verr
	}

	if count > 0 && !force {
		e.recorder.Skipped(ingestionProcess, map[string]any{
			"file_paths": sources,
			"force":      force,
		})
		return nil
	}

	for _, source := range sources {
		if err := e.ingestOne(ctx, source); err != nil {
			e.recorder.Failed(ingestionProcess, map[string]any{
				"file_path": source,
				"error":     err.Error(),
			})
			return err
		}
	}
	return nil
}

func (e *Engine) ingestOne(ctx context.Context, source string) error {
	e.recorder.Started(ingestionProcess, map[string]any{"file_path": source})

	if core.ClassifySource(source) == core.SourceUnknown {
		return core.NewDocumentIngestionError(source, errUnsupportedFormat)
	}

	text, err := e.loader.Load(ctx, source)
	if err != nil {
		if _, ok := core.AsError(err); ok {
			return err
		}
		return core.NewDocumentIngestionError(source, err)
	}

	pieces, err := e.splitter.SplitText(text)
	if err != nil {
		return core.NewChunkingError(len(text), e.chunkSize, err)
	}

	chunks := chunksFromPieces(source, text, pieces)
	if err := e.store.Add(ctx, chunks); err != nil {
		return core.NewVectorStoreError("document_storage", err)
	}

	e.recorder.Completed(ingestionProcess, map[string]any{
		"file_path":   source,
		"chunk_count": len(chunks),
	})
	return nil
}

// chunksFromPieces builds chunks with start offsets resolved against the
// source text. Overlapping pieces are located left to right; a piece that
// cannot be found (splitter whitespace normalization) falls back to the
// previous offset.
func chunksFromPieces(source, text string, pieces []string) []core.Chunk {
	chunks := make([]core.Chunk, 0, len(pieces))
	cursor := 0
	for _, piece := range pieces {
		start := cursor
		if idx := strings.Index(text[cursor:], piece); idx >= 0 {
			start = cursor + idx
			cursor = start + 1
		}
		chunks = append(chunks, core.NewChunk(source, start, piece))
	}
	return chunks
}

var errUnsupportedFormat = errors.New("unsupported file format")
