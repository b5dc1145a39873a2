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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/ragpipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("cats are mammals"), 0o644))

	text, err := (&TextLoader{}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "cats are mammals", text)
}

func TestTextLoaderMissingFile(t *testing.T) {
	_, err := (&TextLoader{}).Load(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestWebLoader(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head><title>Feline Facts</title></head>
<body>
<article>
<h1>Feline Facts</h1>
<p>Cats are small carnivorous mammals kept as pets for thousands of years.
They communicate through vocalization, body language, and scent marking.</p>
<p>Domestic cats retain strong hunting instincts and spend much of their
day in short bursts of intense activity followed by long rest periods.</p>
</article>
</body>
</html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	text, err := NewWebLoader().Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "carnivorous mammals")
	assert.NotContains(t, text, "<p>")
}

func TestWebLoaderNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewWebLoader().Load(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestDefaultDispatchesByKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# heading"), 0o644))

	text, err := NewDefault().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "# heading", text)
}

func TestDefaultRejectsUnsupportedSource(t *testing.T) {
	_, err := NewDefault().Load(context.Background(), "archive.zip")
	require.Error(t, err)
	assert.Equal(t, core.CodeDocumentIngestion, core.CodeOf(err))
}
