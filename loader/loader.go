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


// Package loader turns document sources into plain text.
//
// A source is either a local file path or an http(s) URL. Local text and
// PDF files go through langchaingo document loaders; web pages are
// fetched and reduced to readable text with go-readability.
package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/ragpipe/core"
)

// Loader extracts the full text of a document source.
type Loader interface {
	// Load reads the source and returns its text content.
	Load(ctx context.Context, source string) (string, error)
}

// Default dispatches to a per-kind loader based on the shape of the
// source string.
type Default struct {
	text Loader
	pdf  Loader
	web  Loader
}

var _ Loader = (*Default)(nil)

// NewDefault creates a dispatcher covering text files, PDF files, and
// web pages.
func NewDefault() *Default {
	return &Default{
		text: &TextLoader{},
		pdf:  &PDFLoader{},
		web:  NewWebLoader(),
	}
}

// Load classifies the source and delegates to the matching loader.
// Sources that fit no known kind produce a document ingestion error.
func (d *Default) Load(ctx context.Context, source string) (string, error) {
	switch core.ClassifySource(source) {
	case core.SourceText:
		return d.text.Load(ctx, source)
	case core.SourcePDF:
		return d.pdf.Load(ctx, source)
	case core.SourceWeb:
		return d.web.Load(ctx, source)
	default:
		return "", core.NewDocumentIngestionError(source,
			fmt.Errorf("unsupported document source %q", source))
	}
}

func joinPages(pages []string) string {
	var sb strings.Builder
	for i, page := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(page)
	}
	return sb.String()
}
