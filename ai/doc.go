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


// Package ai defines the provider-adapter boundary of the RAG pipeline.
//
// Two capabilities make the pipeline model-agnostic:
//
//   - Completer: single-shot and streaming text generation
//   - Embedder: vector embeddings for similarity search
//
// A session binds one Completer and one Embedder; the two may come from
// different providers. Adapters are constructed once from an immutable
// ModelConfig and are safe for concurrent reads thereafter. Construction
// fails fast when required configuration is absent; per-call failures
// propagate raw and are classified by the orchestration core.
//
// # Implementation Packages
//
//   - ai/openai: production implementation for OpenAI-wire-compatible
//     backends, with preconfigured variants for ZhipuAI and x.ai
//   - ai/mock: test doubles with injectable behavior and call counting
//
// Public constructors in ai/openai return interface types to enforce the
// abstraction; mock constructors return concrete types so tests can reach
// their assertion helpers.
package ai
