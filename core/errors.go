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
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes for the pipeline taxonomy.
const (
	CodeConfiguration     = "CONFIGURATION_ERROR"
	CodeValidation        = "VALIDATION_ERROR"
	CodeDocumentIngestion = "DOCUMENT_INGESTION_ERROR"
	CodeChunking          = "CHUNKING_ERROR"
	CodeVectorStore       = "VECTOR_STORE_ERROR"
	CodeModelInference    = "MODEL_INFERENCE_ERROR"
	CodeTokenLimit        = "TOKEN_LIMIT_EXCEEDED"
	CodeHistoryLoad       = "HISTORY_LOAD_ERROR"
	CodeHistorySave       = "HISTORY_SAVE_ERROR"
	CodeSessionNotFound   = "SESSION_NOT_FOUND"
)

// Error is the structured error type shared by every pipeline stage.
// It carries a machine-readable code, an HTTP status for transport layers,
// a human-readable message, and a details map sufficient to reconstruct the
// failure without re-deriving it from logs.
type Error struct {
	Code    string
	Status  int
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the causing error for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// ToMap renders the error in the wire shape used by transport layers.
func (e *Error) ToMap() map[string]any {
	return map[string]any{
		"error": map[string]any{
			"code":        e.Code,
			"message":     e.Message,
			"details":     e.Details,
			"status_code": e.Status,
		},
	}
}

func newError(code string, status int, message string, details map[string]any, cause error) *Error {
	if details == nil {
		details = map[string]any{}
	}
	if cause != nil {
		details["error_details"] = cause.Error()
	}
	return &Error{
		Code:    code,
		Status:  status,
		Message: message,
		Details: details,
		cause:   cause,
	}
}

// NewConfigurationError reports missing or invalid adapter configuration.
// Fatal for the session being constructed; never retried.
func NewConfigurationError(message string, cause error) *Error {
	return newError(CodeConfiguration, http.StatusInternalServerError, message, nil, cause)
}

// NewValidationError reports malformed caller input.
func NewValidationError(message string, details map[string]any) *Error {
	return newError(CodeValidation, http.StatusBadRequest, message, details, nil)
}

// NewDocumentIngestionError reports a failure loading a single source.
func NewDocumentIngestionError(source string, cause error) *Error {
	return newError(CodeDocumentIngestion, http.StatusBadRequest,
		fmt.Sprintf("Failed to ingest document: %s", source),
		map[string]any{"file_path": source}, cause)
}

// NewChunkingError reports a text-splitting failure. It carries the input
// length and configured chunk size so the failure can be reproduced.
func NewChunkingError(textLength, chunkSize int, cause error) *Error {
	return newError(CodeChunking, http.StatusInternalServerError,
		"Error during text chunking",
		map[string]any{"text_length": textLength, "chunk_size": chunkSize}, cause)
}

// NewVectorStoreError reports a storage or retrieval failure, naming the
// operation ("document_storage", "retrieval", ...).
func NewVectorStoreError(operation string, cause error) *Error {
	return newError(CodeVectorStore, http.StatusInternalServerError,
		fmt.Sprintf("Vector store error during %s", operation),
		map[string]any{"operation": operation}, cause)
}

// NewModelInferenceError reports a completion or streaming call failure.
func NewModelInferenceError(modelName string, cause error) *Error {
	return newError(CodeModelInference, http.StatusInternalServerError,
		fmt.Sprintf("Error during inference with model '%s'", modelName),
		map[string]any{"model_name": modelName}, cause)
}

// NewModelTokenLimitError reports a token or context-length limit violation.
func NewModelTokenLimitError(modelName string, tokenCount, tokenLimit int, cause error) *Error {
	return newError(CodeTokenLimit, http.StatusBadRequest,
		fmt.Sprintf("Token limit exceeded for model '%s'", modelName),
		map[string]any{
			"model_name":  modelName,
			"token_count": tokenCount,
			"token_limit": tokenLimit,
		}, cause)
}

// NewHistoryLoadError reports a failure restoring conversation state.
// In-memory state is unchanged when this is returned.
func NewHistoryLoadError(filename string, cause error) *Error {
	return newError(CodeHistoryLoad, http.StatusInternalServerError,
		fmt.Sprintf("Failed to load conversation history: %s", filename),
		map[string]any{"filename": filename}, cause)
}

// NewHistorySaveError reports a failure persisting conversation state.
func NewHistorySaveError(filename string, cause error) *Error {
	return newError(CodeHistorySave, http.StatusInternalServerError,
		fmt.Sprintf("Failed to save conversation history: %s", filename),
		map[string]any{"filename": filename}, cause)
}

// NewSessionNotFoundError reports a lookup for an unknown session id.
func NewSessionNotFoundError(sessionID string) *Error {
	return newError(CodeSessionNotFound, http.StatusNotFound,
		fmt.Sprintf("Session not found: %s", sessionID),
		map[string]any{"session_id": sessionID}, nil)
}

// AsError unwraps err into a *Error if the chain contains one.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// CodeOf returns the taxonomy code carried by err, or empty when err is not
// part of the taxonomy.
func CodeOf(err error) string {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}
