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


package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Chunk IDs are derived deterministically from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleHuman is the user asking questions.
	RoleHuman Role = "human"
	// RoleAssistant is the model producing answers.
	RoleAssistant Role = "assistant"
)

// Turn is a single entry in a conversation log.
// Turns are append-only; ordering is insertion order.
type Turn struct {
	Role      Role      `json:"role"`
	Contents  string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Chunk is a contiguous fragment of a source document.
// It is the unit of storage and retrieval, immutable once stored.
type Chunk struct {
	Id          ID
	Source      string // Path or URL the chunk was split from
	StartOffset int    // Byte offset of the chunk within the source document
	Contents    string
	Vector      []float32 // Embedding vector (populated by the store)
}

// NewChunk builds a Chunk with a deterministic content-derived ID.
func NewChunk(source string, startOffset int, contents string) Chunk {
	return Chunk{
		Id:          IDFromContent(source + "\x00" + contents),
		Source:      source,
		StartOffset: startOffset,
		Contents:    contents,
	}
}

// SourceKind classifies an ingestion source by its shape.
type SourceKind int

const (
	// SourceUnknown is an unrecognized source shape.
	SourceUnknown SourceKind = iota
	// SourceText is a plain-text or markdown file.
	SourceText
	// SourcePDF is a PDF file.
	SourcePDF
	// SourceWeb is an http or https URL.
	SourceWeb
)

// String returns the classification name.
func (k SourceKind) String() string {
	switch k {
	case SourceText:
		return "text"
	case SourcePDF:
		return "pdf"
	case SourceWeb:
		return "web"
	default:
		return "unknown"
	}
}

// ClassifySource classifies a source by suffix or scheme.
// URLs win over suffixes so a remote .pdf is fetched, not opened.
func ClassifySource(source string) SourceKind {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return SourceWeb
	}
	lower := strings.ToLower(source)
	switch {
	case strings.HasSuffix(lower, ".txt"), strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".markdown"):
		return SourceText
	case strings.HasSuffix(lower, ".pdf"):
		return SourcePDF
	default:
		return SourceUnknown
	}
}
