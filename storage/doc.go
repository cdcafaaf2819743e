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


// Package storage provides the storage abstraction layer for clauselens.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, so different backends (BadgerDB,
// in-memory, etc.) can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	repo, err := badger.NewDocumentRepository(backend)  // returns storage.DocumentRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern over four logical tables,
// each serialized as independently readable JSON blobs:
//
//   - DocumentRepository: analyzed documents, indexed by owner and timestamp
//   - RecentRepository: the bounded 10-entry recent-analysis cache
//   - UserRepository: user records and the current-session pointer
//
// # Capacity and degradation
//
// The store is capacity-constrained. Writes that would exceed capacity fail
// with ErrQuotaExceeded; WriteWithDegrade implements the attempt, shrink,
// retry-once, propagate policy that document writes use to drop raw byte
// content under pressure while preserving the analysis.
//
// Read operations never propagate corruption: unparsable records are skipped
// or reported as ErrNotFound so a damaged store cannot crash a reader.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
