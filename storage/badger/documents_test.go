package badger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/tcembed/core"
	"github.com/poiesic/tcembed/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *DocumentStore {
	t.Helper()
	store, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close(context.Background())
	})
	return store
}

func newDocument(id string, steps core.Steps) *core.EnrichedDocument {
	return &core.EnrichedDocument{
		TestCase: core.TestCase{
			ID:              id,
			Module:          "Checkout",
			Title:           "Pay with card",
			Description:     "Card payment succeeds",
			Steps:           steps,
			ExpectedResults: "Order confirmed",
		},
		Embedding: []float32{0.25, -0.5, 1},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Metadata: core.EmbeddingMetadata{
			Model:  "text-embedding-3-small",
			Cost:   0.0001,
			Tokens: 42,
			Source: "embedding-api",
			RunID:  "run-1",
		},
	}
}

func TestDocumentStore_WriteAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc := newDocument("TC-1", core.ListSteps("open cart", "pay"))
	id, err := store.Write(ctx, doc)
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err, "ids are UUIDs")

	stored, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, doc.TestCase.ID, stored.Document.ID)
	assert.Equal(t, doc.Module, stored.Document.Module)
	assert.Equal(t, doc.Title, stored.Document.Title)
	assert.Equal(t, doc.Description, stored.Document.Description)
	assert.Equal(t, doc.ExpectedResults, stored.Document.ExpectedResults)
	assert.True(t, stored.Document.Steps.IsList())
	assert.Equal(t, []string{"open cart", "pay"}, stored.Document.Steps.Items())
	assert.Equal(t, doc.Embedding, stored.Document.Embedding)
	assert.True(t, doc.CreatedAt.Equal(stored.Document.CreatedAt))
	assert.Equal(t, doc.Metadata, stored.Document.Metadata)
}

func TestDocumentStore_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentStore_ListKeepsInsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, tcID := range []string{"TC-1", "TC-2", "TC-3"} {
		id, err := store.Write(ctx, newDocument(tcID, core.TextSteps("step")))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, doc := range docs {
		assert.Equal(t, ids[i], doc.ID)
	}
	assert.Equal(t, "TC-1", docs[0].Document.ID)
	assert.Equal(t, "TC-3", docs[2].Document.ID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestDocumentStore_EmptyStore(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	docs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDocumentStore_WriteAfterClose(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, store.Close(context.Background()))

	_, err = store.Write(context.Background(), newDocument("TC-1", core.TextSteps("x")))
	assert.ErrorIs(t, err, storage.ErrWrite)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	// closing twice is harmless
	assert.NoError(t, store.Close(context.Background()))
}

func TestDocumentStore_WriteCancelledContext(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Write(ctx, newDocument("TC-1", core.TextSteps("x")))
	assert.ErrorIs(t, err, storage.ErrWrite)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)
	id, err := store.Write(ctx, newDocument("TC-7", core.TextSteps("persist me")))
	require.NoError(t, err)
	require.NoError(t, store.Close(ctx))

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close(ctx)

	stored, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "TC-7", stored.Document.ID)
	assert.Equal(t, "persist me", stored.Document.Steps.String())
}

func TestOpen_RejectsFile(t *testing.T) {
	_, err := Open("documents_test.go")
	assert.ErrorIs(t, err, storage.ErrConnection)
}

func TestDocumentIDFromKey(t *testing.T) {
	key := makeDocumentKey("abc")
	assert.Equal(t, "tcdoc:abc", string(key))
	assert.Equal(t, "abc", documentIDFromKey(key))
}
