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


// Package storage provides the document store abstraction used by ingestion runs.
//
// DocumentWriter is the only contract the ingestion driver depends on. It is
// insert-only: there is no upsert, and callers are responsible for writing
// each test case at most once per run.
//
// # Implementations
//
//   - storage/mongo: MongoDB collection (production)
//   - storage/badger: embedded BadgerDB directory (local runs and tests)
//
// Both persist the same BSON shape (DocumentRecord):
//
//	{
//	  id, module, title, description, steps, expectedResults,
//	  embedding: [...],
//	  createdAt: <UTC datetime>,
//	  embeddingMetadata: {model, cost, tokens, source, runId}
//	}
//
// # Errors
//
// Per-document failures are *WriteError (errors.Is(err, ErrWrite)). Failures
// to connect, ping or release the store are *ConnectionError
// (errors.Is(err, ErrConnection)) and are fatal for a run.
package storage
