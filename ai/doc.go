// Copyright 2025 Veridian Labs
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


// Package ai provides abstractions for the external document-understanding
// services used by clauselens.
//
// This package defines interfaces for document analysis, clause question
// answering, conversational guidance and cross-document comparison. It follows
// the dependency inversion principle, allowing the pipeline and the rest of
// the business logic to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - DocumentAnalyzer: Produces a structured Analysis from document bytes
//   - Assistant: Answers clause questions, chats, and compares documents
//   - Provider: Aggregates both services behind one long-lived handle
//
// A single Provider instance is created at startup and injected where needed;
// no component constructs a client per call. This allows connection reuse and
// deterministic test substitution.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider) return INTERFACE types to enforce
// abstraction. Test utility constructors (mock.NewAnalyzer, mock.NewAssistant)
// return CONCRETE types to enable behavior injection via function fields and
// assertions via call counts.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	analysis, err := provider.Analyzer().Analyze(ctx, ai.AnalyzeRequest{
//	    Data:      encoded,
//	    MediaType: core.MediaTypePDF,
//	})
package ai
