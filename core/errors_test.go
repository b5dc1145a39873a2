package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        *Error
		wantCode   string
		wantStatus int
		wantKeys   []string
	}{
		{
			name:       "configuration",
			err:        NewConfigurationError("api key missing", nil),
			wantCode:   CodeConfiguration,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "validation",
			err:        NewValidationError("bad input", map[string]any{"field": "k"}),
			wantCode:   CodeValidation,
			wantStatus: http.StatusBadRequest,
			wantKeys:   []string{"field"},
		},
		{
			name:       "document ingestion",
			err:        NewDocumentIngestionError("file.xyz", cause),
			wantCode:   CodeDocumentIngestion,
			wantStatus: http.StatusBadRequest,
			wantKeys:   []string{"file_path", "error_details"},
		},
		{
			name:       "chunking",
			err:        NewChunkingError(1234, 500, cause),
			wantCode:   CodeChunking,
			wantStatus: http.StatusInternalServerError,
			wantKeys:   []string{"text_length", "chunk_size"},
		},
		{
			name:       "vector store",
			err:        NewVectorStoreError("document_storage", cause),
			wantCode:   CodeVectorStore,
			wantStatus: http.StatusInternalServerError,
			wantKeys:   []string{"operation"},
		},
		{
			name:       "model inference",
			err:        NewModelInferenceError("gpt-4o-mini", cause),
			wantCode:   CodeModelInference,
			wantStatus: http.StatusInternalServerError,
			wantKeys:   []string{"model_name"},
		},
		{
			name:       "token limit",
			err:        NewModelTokenLimitError("gpt-4o-mini", 9000, 8192, cause),
			wantCode:   CodeTokenLimit,
			wantStatus: http.StatusBadRequest,
			wantKeys:   []string{"model_name", "token_count", "token_limit"},
		},
		{
			name:       "history load",
			err:        NewHistoryLoadError("conv.json", cause),
			wantCode:   CodeHistoryLoad,
			wantStatus: http.StatusInternalServerError,
			wantKeys:   []string{"filename"},
		},
		{
			name:       "history save",
			err:        NewHistorySaveError("conv.json", cause),
			wantCode:   CodeHistorySave,
			wantStatus: http.StatusInternalServerError,
			wantKeys:   []string{"filename"},
		},
		{
			name:       "session not found",
			err:        NewSessionNotFoundError("sess-1"),
			wantCode:   CodeSessionNotFound,
			wantStatus: http.StatusNotFound,
			wantKeys:   []string{"session_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.NotEmpty(t, tt.err.Message)
			for _, key := range tt.wantKeys {
				assert.Contains(t, tt.err.Details, key)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewVectorStoreError("document_storage", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), CodeVectorStore)
}

func TestAsErrorThroughWrapping(t *testing.T) {
	inner := NewChunkingError(100, 50, errors.New("splitter choked"))
	wrapped := fmt.Errorf("ingest source 2: %w", inner)

	got, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeChunking, got.Code)
	assert.Equal(t, CodeChunking, CodeOf(wrapped))
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Empty(t, CodeOf(errors.New("plain")))
	assert.Empty(t, CodeOf(nil))
}

func TestErrorToMap(t *testing.T) {
	err := NewDocumentIngestionError("a.xyz", errors.New("unsupported"))
	m := err.ToMap()

	inner, ok := m["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, CodeDocumentIngestion, inner["code"])
	assert.Equal(t, http.StatusBadRequest, inner["status_code"])
	assert.Equal(t, err.Details, inner["details"])
}
