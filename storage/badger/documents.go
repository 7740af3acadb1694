package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/tcembed/core"
	"github.com/poiesic/tcembed/storage"
)

// DocumentStore stores enriched documents in BadgerDB as BSON values.
type DocumentStore struct {
	backend *Backend
}

var (
	_ storage.DocumentWriter = (*DocumentStore)(nil)
	_ storage.DocumentReader = (*DocumentStore)(nil)
)

// NewDocumentStore creates a DocumentStore on an open backend.
// The store takes ownership of the backend and closes it on Close.
func NewDocumentStore(backend *Backend) *DocumentStore {
	return &DocumentStore{backend: backend}
}

// Open opens (or creates) a document store at path.
func Open(path string) (*DocumentStore, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, &storage.ConnectionError{Op: "connect", Err: err}
	}
	return NewDocumentStore(backend), nil
}

// OpenInMemory opens a document store that lives only in memory.
func OpenInMemory() (*DocumentStore, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, &storage.ConnectionError{Op: "connect", Err: err}
	}
	return NewDocumentStore(backend), nil
}

// Write inserts a document under a new UUIDv7 identifier.
func (s *DocumentStore) Write(ctx context.Context, doc *core.EnrichedDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &storage.WriteError{TestCaseID: doc.ID, Err: err}
	}
	if s.backend.IsClosed() {
		return "", &storage.WriteError{TestCaseID: doc.ID, Err: storage.ErrStorageClosed}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", &storage.WriteError{TestCaseID: doc.ID, Err: err}
	}

	value, err := storage.MarshalDocument(doc)
	if err != nil {
		return "", &storage.WriteError{TestCaseID: doc.ID, Err: err}
	}

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeDocumentKey(id.String()), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return "", &storage.WriteError{TestCaseID: doc.ID, Err: err}
	}

	return id.String(), nil
}

// Get returns the document stored under id.
func (s *DocumentStore) Get(ctx context.Context, id string) (*storage.StoredDocument, error) {
	var stored *storage.StoredDocument
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			doc, err := storage.UnmarshalDocument(val)
			if err != nil {
				return err
			}
			stored = &storage.StoredDocument{ID: id, Document: doc}
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// List returns every stored document in insertion order.
func (s *DocumentStore) List(ctx context.Context) ([]*storage.StoredDocument, error) {
	var results []*storage.StoredDocument

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			id := documentIDFromKey(item.KeyCopy(nil))
			err := item.Value(func(val []byte) error {
				doc, err := storage.UnmarshalDocument(val)
				if err != nil {
					return err
				}
				results = append(results, &storage.StoredDocument{ID: id, Document: doc})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns the number of stored documents.
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Close closes the underlying database.
func (s *DocumentStore) Close(ctx context.Context) error {
	if s.backend.IsClosed() {
		return nil
	}
	if err := s.backend.Close(); err != nil {
		return &storage.ConnectionError{Op: "close", Err: err}
	}
	return nil
}
