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


package storage

import (
	"context"

	"github.com/poiesic/tcembed/core"
)

// DocumentWriter persists enriched documents.
type DocumentWriter interface {
	// Write inserts a document and returns the identifier the store generated.
	// Every call is an insert; writing the same test case twice stores two documents.
	// Failures are returned as *WriteError.
	Write(ctx context.Context, doc *core.EnrichedDocument) (string, error)

	// Close releases the store connection.
	// Failures are returned as *ConnectionError.
	Close(ctx context.Context) error
}

// DocumentReader reads back stored documents. Stores that support local
// inspection implement it alongside DocumentWriter.
type DocumentReader interface {
	// Get returns the document stored under id.
	// Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*StoredDocument, error)

	// List returns every stored document in insertion order.
	List(ctx context.Context) ([]*StoredDocument, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}

// StoredDocument pairs a document with the identifier it was stored under.
type StoredDocument struct {
	ID       string
	Document *core.EnrichedDocument
}
