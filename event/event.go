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


// Package event records the lifecycle of long-running processes such as
// document ingestion and answer generation. Every event is logged; an
// optional sink receives a copy for programmatic inspection.
package event

import (
	"log/slog"
	"time"
)

// Status marks where a process is in its lifecycle.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Event describes one step of a named process.
type Event struct {
	Timestamp time.Time
	Process   string
	Status    Status
	Fields    map[string]any
}

// Sink receives a copy of every recorded event.
type Sink interface {
	Record(e Event)
}

// Recorder emits process events. The zero value is not usable; use
// NewRecorder.
type Recorder struct {
	logger *slog.Logger
	sink   Sink
	now    func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// WithSink attaches a sink that receives every event.
func WithSink(sink Sink) Option {
	return func(r *Recorder) {
		r.sink = sink
	}
}

// NewRecorder creates an event recorder.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Emit records one event for the named process. Fields may be nil.
func (r *Recorder) Emit(process string, status Status, fields map[string]any) {
	e := Event{
		Timestamp: r.now(),
		Process:   process,
		Status:    status,
		Fields:    fields,
	}

	attrs := make([]any, 0, 2+2*len(fields))
	attrs = append(attrs, "process", process)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}

	if status == StatusFailed {
		r.logger.Error(string(status), attrs...)
	} else {
		r.logger.Info(string(status), attrs...)
	}

	if r.sink != nil {
		r.sink.Record(e)
	}
}

// Started emits a started event.
func (r *Recorder) Started(process string, fields map[string]any) {
	r.Emit(process, StatusStarted, fields)
}

// Completed emits a completed event.
func (r *Recorder) Completed(process string, fields map[string]any) {
	r.Emit(process, StatusCompleted, fields)
}

// Failed emits a failed event.
func (r *Recorder) Failed(process string, fields map[string]any) {
	r.Emit(process, StatusFailed, fields)
}

// Skipped emits a skipped event.
func (r *Recorder) Skipped(process string, fields map[string]any) {
	r.Emit(process, StatusSkipped, fields)
}
