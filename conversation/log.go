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


package conversation

import (
	"strings"
	"sync"
	"time"

	"github.com/poiesic/ragpipe/core"
)

// DefaultWindow is the number of most recent turns rendered into prompts.
const DefaultWindow = 5

// Log is an append-only ordered record of conversation turns for one
// session. Ordering is strictly insertion order; turns are never reordered
// or deduplicated. The log itself grows without bound unless a retention
// limit is configured; the window only bounds what FormatHistory renders.
type Log struct {
	mu        sync.Mutex
	turns     []core.Turn
	window    int
	retention int // 0 means keep everything
	now       func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithWindow sets how many of the most recent turns FormatHistory renders.
// Default is DefaultWindow.
func WithWindow(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.window = n
		}
	}
}

// WithRetention bounds the number of turns kept in memory. Older turns are
// dropped as new ones arrive. Zero, the default, keeps the full log.
func WithRetention(n int) Option {
	return func(l *Log) {
		if n >= 0 {
			l.retention = n
		}
	}
}

// withClock overrides the timestamp source. Test hook.
func withClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

// NewLog creates an empty conversation log.
func NewLog(opts ...Option) *Log {
	l := &Log{
		window: DefaultWindow,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddMessage appends a turn with a generation timestamp.
func (l *Log) AddMessage(role core.Role, contents string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = append(l.turns, core.Turn{
		Role:      role,
		Contents:  contents,
		Timestamp: l.now(),
	})
	if l.retention > 0 && len(l.turns) > l.retention {
		l.turns = l.turns[len(l.turns)-l.retention:]
	}
}

// FormatHistory renders the most recent turns oldest-first as
// "role: content" lines joined by newlines.
func (l *Log) FormatHistory() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := 0
	if len(l.turns) > l.window {
		start = len(l.turns) - l.window
	}

	lines := make([]string, 0, len(l.turns)-start)
	for _, turn := range l.turns[start:] {
		lines = append(lines, string(turn.Role)+": "+turn.Contents)
	}
	return strings.Join(lines, "\n")
}

// Turns returns a copy of the full log in insertion order.
func (l *Log) Turns() []core.Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]core.Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len reports the number of turns currently retained.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Clear empties the log.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}
