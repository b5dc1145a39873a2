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


package loader

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/documentloaders"
)

// TextLoader reads plain-text and markdown files.
type TextLoader struct{}

var _ Loader = (*TextLoader)(nil)

// Load returns the full contents of the file at source.
func (l *TextLoader) Load(ctx context.Context, source string) (string, error) {
	f, err := os.Open(source)
	if err != nil {
		return "", err
	}
	defer f.Close()

	docs, err := documentloaders.NewText(f).Load(ctx)
	if err != nil {
		return "", err
	}

	pages := make([]string, len(docs))
	for i, doc := range docs {
		pages[i] = doc.PageContent
	}
	return joinPages(pages), nil
}

// PDFLoader extracts text from PDF files, one page per section.
type PDFLoader struct{}

var _ Loader = (*PDFLoader)(nil)

// Load returns the concatenated text of all pages in the PDF at source.
func (l *PDFLoader) Load(ctx context.Context, source string) (string, error) {
	f, err := os.Open(source)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	docs, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return "", err
	}

	pages := make([]string, len(docs))
	for i, doc := range docs {
		pages[i] = doc.PageContent
	}
	return joinPages(pages), nil
}
