package ai

import "context"

// Completer exposes the uniform completion capability of a provider backend.
// Implementations must be thread-safe for concurrent use and hold no mutable
// session state; per-session state lives in the orchestration layer.
type Completer interface {
	// Complete sends a prompt and returns the full generated text.
	// Returns an error if the underlying call fails.
	Complete(ctx context.Context, prompt string) (string, error)

	// Stream sends a prompt and returns a finite sequence of text fragments.
	// The fragment channel is closed when the stream ends; the error channel
	// then yields the terminal error, or nil on clean completion. Fragments
	// already delivered are not retracted when the call fails mid-stream.
	// The stream is not restartable.
	Stream(ctx context.Context, prompt string) (<-chan string, <-chan error)

	// ModelName reports the configured model identifier, used by callers to
	// classify failures.
	ModelName() string
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
