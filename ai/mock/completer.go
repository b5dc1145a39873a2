package mock

import (
	"context"
	"sync"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	// StreamFunc is called by Stream if set.
	StreamFunc func(ctx context.Context, prompt string) (<-chan string, <-chan error)

	// Response is the canned answer used by the default behavior.
	Response string

	// Err, when set, is returned by the default Complete and terminates the
	// default Stream after any fragments already emitted.
	Err error

	// FailAfterFragments controls how many fragments the default Stream
	// emits before failing when Err is set. Zero fails before any output.
	FailAfterFragments int

	mu            sync.Mutex
	completeCalls int
	streamCalls   int
	prompts       []string
}

// NewMockCompleter creates a mock completer with a default canned response.
// Note: returns the concrete type so tests can reach assertion helpers.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{Response: "mock answer"}
}

// ModelName reports a fixed test model identifier.
func (m *MockCompleter) ModelName() string {
	return "mock-model"
}

// Complete returns the canned response or delegates to CompleteFunc.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.completeCalls++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Stream yields the canned response split into fragments whose
// concatenation equals the Complete result for the same prompt.
func (m *MockCompleter) Stream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	m.mu.Lock()
	m.streamCalls++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, prompt)
	}

	fragments := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		emitted := 0
		for _, fragment := range splitFragments(m.Response) {
			if m.Err != nil && emitted >= m.FailAfterFragments {
				break
			}
			select {
			case fragments <- fragment:
				emitted++
			case <-ctx.Done():
				close(fragments)
				errc <- ctx.Err()
				return
			}
		}
		close(fragments)
		if m.Err != nil {
			errc <- m.Err
		}
	}()
	return fragments, errc
}

// CompleteCalls returns how many times Complete was invoked.
func (m *MockCompleter) CompleteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completeCalls
}

// StreamCalls returns how many times Stream was invoked.
func (m *MockCompleter) StreamCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streamCalls
}

// Prompts returns the prompts seen by either method, in call order.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Reset clears counters, recorded prompts, and injected behavior.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls = 0
	m.streamCalls = 0
	m.prompts = nil
	m.CompleteFunc = nil
	m.StreamFunc = nil
	m.Err = nil
	m.FailAfterFragments = 0
}

// splitFragments breaks text into small fragments, splitting after each
// space so the pieces concatenate back to the original exactly.
func splitFragments(text string) []string {
	if text == "" {
		return nil
	}
	var fragments []string
	start := 0
	for i, r := range text {
		if r == ' ' {
			fragments = append(fragments, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		fragments = append(fragments, text[start:])
	}
	return fragments
}
