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


// Package badger provides a vectorstore.Store persisted in BadgerDB.
// Chunks survive process restarts; an in-memory mode backs tests.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/ragpipe/ai"
	"github.com/poiesic/ragpipe/core"
	"github.com/poiesic/ragpipe/vectorstore"
)

const (
	chunkKeySeq = "chunkseq"

	defaultSequenceBandwidth = 100
	scoringBatchSize         = 256
)

// ErrEmbedderRequired is returned when an embedder is not provided.
var ErrEmbedderRequired = errors.New("embedder required")

// Store is a BadgerDB-backed chunk store with exact top-k retrieval.
// Similarity scoring during Query fans out over a bounded worker pool;
// writes stay strictly sequential.
type Store struct {
	db       *badger.DB
	embedder ai.Embedder
	keySeq   *badger.Sequence
	pool     *ants.Pool
	logger   *slog.Logger
}

var _ vectorstore.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the scoring worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Store) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a persistent store at filePath, creating the directory if
// needed.
func Open(filePath string, embedder ai.Embedder, opts ...Option) (*Store, error) {
	return open(filePath, false, embedder, opts...)
}

// OpenInMemory opens a store that lives only for the process lifetime.
func OpenInMemory(embedder ai.Embedder, opts ...Option) (*Store, error) {
	return open("", true, embedder, opts...)
}

func open(filePath string, inMemory bool, embedder ai.Embedder, opts ...Option) (*Store, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	var badgerOpts badger.Options
	if inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := os.MkdirAll(filePath, 0o755); err != nil {
				return nil, err
			}
			info, err = os.Stat(filePath)
			if err != nil {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		badgerOpts = badger.DefaultOptions(filePath)
	}

	s := &Store{
		embedder: embedder,
		logger:   slog.Default(),
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.pool.Release()
			return nil, err
		}
	}

	badgerOpts.Logger = &badgerLoggerAdapter{logger: s.logger}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		s.pool.Release()
		return nil, err
	}
	s.db = db

	keySeq, err := db.GetSequence([]byte(chunkKeySeq), defaultSequenceBandwidth)
	if err != nil {
		db.Close()
		s.pool.Release()
		return nil, err
	}
	s.keySeq = keySeq

	return s, nil
}

// Close releases the key sequence, the worker pool, and the database.
func (s *Store) Close() error {
	if err := s.keySeq.Release(); err != nil {
		s.logger.Error("error releasing key sequence", "err", err)
	}
	s.pool.Release()
	return s.db.Close()
}

// Add embeds and stores chunks in a single transaction. The batch is
// embedded before the database is touched, and Badger transactions are
// atomic, so a failure leaves the store in its prior state.
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

	return s.db.Update(func(tx *badger.Txn) error {
		for i, chunk := range chunks {
			chunk.Vector = vectors[i]

			// Every insert gets a fresh key so re-ingestion appends
			// instead of overwriting identical content.
			seq, err := s.keySeq.Next()
			if err != nil {
				return err
			}

			value, err := marshalChunk(&chunk)
			if err != nil {
				return err
			}
			if err := tx.Set(makeChunkKey(seq), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Query scans all stored chunks and returns the k most similar to text.
func (s *Store) Query(ctx context.Context, text string, k int) ([]core.Chunk, error) {
	if k < 1 {
		return nil, errors.New("k must be positive")
	}

	queryVector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	var candidates []core.Chunk
	err = s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkKeyPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = unmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}
			candidates = append(candidates, *chunk)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	scores := s.scoreParallel(queryVector, candidates)

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	results := make([]core.Chunk, k)
	for i := 0; i < k; i++ {
		results[i] = candidates[order[i]]
	}
	return results, nil
}

// scoreParallel computes similarity scores using the worker pool,
// falling back to inline scoring when the pool refuses work.
func (s *Store) scoreParallel(queryVector []float32, candidates []core.Chunk) []float32 {
	scores := make([]float32, len(candidates))
	var wg sync.WaitGroup

	for start := 0; start < len(candidates); start += scoringBatchSize {
		end := start + scoringBatchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		score := func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				scores[i] = vectorstore.CosineSimilarity(queryVector, candidates[i].Vector)
			}
		}

		wg.Add(1)
		if err := s.pool.Submit(score); err != nil {
			score()
		}
	}
	wg.Wait()
	return scores
}

// Count reports the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkKeyPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Clear removes all chunks.
func (s *Store) Clear(ctx context.Context) error {
	return s.db.DropPrefix([]byte(chunkKeyPrefix))
}
