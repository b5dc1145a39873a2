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
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/poiesic/ragpipe/ai/mock"
	"github.com/poiesic/ragpipe/core"
	"github.com/poiesic/ragpipe/event"
	"github.com/poiesic/ragpipe/loader"
	"github.com/poiesic/ragpipe/vectorstore"
	"github.com/poiesic/ragpipe/vectorstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEngine wires an engine to an in-memory store, mock model, and an
// event sink the tests can inspect.
func testEngine(t *testing.T, opts ...Option) (*Engine, *mock.MockCompleter, *event.MemorySink) {
	t.Helper()

	completer := mock.NewMockCompleter()
	store, err := memory.NewStore(mock.NewMockEmbedder())
	require.NoError(t, err)

	sink := event.NewMemorySink()
	opts = append([]Option{WithRecorder(event.NewRecorder(event.WithSink(sink)))}, opts...)

	engine, err := NewEngine(completer, store, opts...)
	require.NoError(t, err)
	return engine, completer, sink
}

func writeDoc(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	store, err := memory.NewStore(mock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = NewEngine(nil, store)
	assert.ErrorIs(t, err, ErrCompleterRequired)

	_, err = NewEngine(mock.NewMockCompleter(), nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}

func TestIngestTextFile(t *testing.T) {
	engine, _, sink := testEngine(t)
	path := writeDoc(t, "cats.txt", "Cats are small carnivorous mammals.")

	require.NoError(t, engine.Ingest(context.Background(), []string{path}, false))

	count, err := engine.DocumentCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	events := sink.ByProcess("document_ingestion")
	require.Len(t, events, 2)
	assert.Equal(t, event.StatusStarted, events[0].Status)
	assert.Equal(t, event.StatusCompleted, events[1].Status)
	assert.Equal(t, 1, events[1].Fields["chunk_count"])
	assert.Equal(t, path, events[1].Fields["file_path"])
}

func TestIngestIsIdempotent(t *testing.T) {
	engine, _, sink := testEngine(t)
	path := writeDoc(t, "cats.txt", "Cats are small carnivorous mammals.")
	ctx := context.Background()

	require.NoError(t, engine.Ingest(ctx, []string{path}, false))
	sink.Reset()
	require.NoError(t, engine.Ingest(ctx, []string{path}, false))

	count, err := engine.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, event.StatusSkipped, events[0].Status)
}

func TestIngestForceReprocesses(t *testing.T) {
	engine, _, _ := testEngine(t)
	path := writeDoc(t, "cats.txt", "Cats are small carnivorous mammals.")
	ctx := context.Background()

	require.NoError(t, engine.Ingest(ctx, []string{path}, false))
	require.NoError(t, engine.Ingest(ctx, []string{path}, true))

	count, err := engine.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngestUnsupportedSource(t *testing.T) {
	engine, _, sink := testEngine(t)

	err := engine.Ingest(context.Background(), []string{"archive.zip"}, false)
	require.Error(t, err)
	assert.Equal(t, core.CodeDocumentIngestion, core.CodeOf(err))

	e, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "archive.zip", e.Details["file_path"])

	events := sink.ByProcess("document_ingestion")
	require.NotEmpty(t, events)
	assert.Equal(t, event.StatusFailed, events[len(events)-1].Status)
}

func TestIngestMissingFile(t *testing.T) {
	engine, _, _ := testEngine(t)

	err := engine.Ingest(context.Background(), []string{filepath.Join(t.TempDir(), "absent.txt")}, false)
	require.Error(t, err)
	assert.Equal(t, core.CodeDocumentIngestion, core.CodeOf(err))
}

func TestIngestFailsFast(t *testing.T) {
	engine, _, _ := testEngine(t)
	good := writeDoc(t, "cats.txt", "Cats are small carnivorous mammals.")
	ctx := context.Background()

	err := engine.Ingest(ctx, []string{"archive.zip", good}, false)
	require.Error(t, err)

	count, err := engine.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "later sources must not be attempted after a failure")
}

// countingLoader records which sources were actually loaded.
type countingLoader struct {
	inner loader.Loader

	mu      sync.Mutex
	sources []string
}

func (l *countingLoader) Load(ctx context.Context, source string) (string, error) {
	l.mu.Lock()
	l.sources = append(l.sources, source)
	l.mu.Unlock()
	return l.inner.Load(ctx, source)
}

func (l *countingLoader) loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.sources...)
}

func TestIngestKeepsCommittedPrefixOnFailure(t *testing.T) {
	counting := &countingLoader{inner: loader.NewDefault()}
	engine, _, _ := testEngine(t, WithLoader(counting))
	ctx := context.Background()

	first := writeDoc(t, "cats.txt", "Cats are small carnivorous mammals.")
	third := writeDoc(t, "dogs.txt", "Dogs are domesticated descendants of wolves.")

	err := engine.Ingest(ctx, []string{first, "archive.zip", third}, false)
	require.Error(t, err)
	assert.Equal(t, core.CodeDocumentIngestion, core.CodeOf(err))

	count, err := engine.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "chunks from sources before the failure stay committed")

	assert.Equal(t, []string{first}, counting.loaded(),
		"sources after the failure are never loaded")
}

func TestIngestSplitsLongDocuments(t *testing.T) {
	engine, _, sink := testEngine(t, WithChunking(200, 20))

	var contents []byte
	for len(contents) < 2000 {
		contents = append(contents, []byte("Cats are small carnivorous mammals kept as pets. ")...)
	}
	path := writeDoc(t, "cats.txt", string(contents))

	require.NoError(t, engine.Ingest(context.Background(), []string{path}, false))

	count, err := engine.DocumentCount(context.Background())
	require.NoError(t, err)
	assert.Greater(t, count, 1)

	events := sink.ByProcess("document_ingestion")
	assert.Equal(t, count, events[len(events)-1].Fields["chunk_count"])
}

// failingStore wraps a working store and fails writes.
type failingStore struct {
	vectorstore.Store
}

func (s *failingStore) Add(ctx context.Context, chunks []core.Chunk) error {
	return errors.New("disk full")
}

func TestIngestStorageFailure(t *testing.T) {
	inner, err := memory.NewStore(mock.NewMockEmbedder())
	require.NoError(t, err)

	sink := event.NewMemorySink()
	engine, err := NewEngine(mock.NewMockCompleter(), &failingStore{Store: inner},
		WithRecorder(event.NewRecorder(event.WithSink(sink))))
	require.NoError(t, err)

	path := writeDoc(t, "cats.txt", "Cats are small carnivorous mammals.")
	err = engine.Ingest(context.Background(), []string{path}, false)
	require.Error(t, err)
	assert.Equal(t, core.CodeVectorStore, core.CodeOf(err))

	e, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "document_storage", e.Details["operation"])
}

// unreadableStore wraps a working store and fails reads.
type unreadableStore struct {
	vectorstore.Store
}

func (s *unreadableStore) Count(ctx context.Context) (int, error) {
	return 0, errors.New("manifest corrupted")
}

func TestIngestCountProbeFailure(t *testing.T) {
	inner, err := memory.NewStore(mock.NewMockEmbedder())
	require.NoError(t, err)

	sink := event.NewMemorySink()
	engine, err := NewEngine(mock.NewMockCompleter(), &unreadableStore{Store: inner},
		WithRecorder(event.NewRecorder(event.WithSink(sink))))
	require.NoError(t, err)

	path := writeDoc(t, "cats.txt", "Cats are small carnivorous mammals.")
	err = engine.Ingest(context.Background(), []string{path}, false)
	require.Error(t, err)
	assert.Equal(t, core.CodeVectorStore, core.CodeOf(err))

	e, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "count", e.Details["operation"])

	events := sink.ByProcess("document_ingestion")
	require.Len(t, events, 1)
	assert.Equal(t, event.StatusFailed, events[0].Status)
}
