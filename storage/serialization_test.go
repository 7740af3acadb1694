package storage

import (
	"testing"
	"time"

	"github.com/poiesic/tcembed/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func sampleDocument(steps core.Steps) *core.EnrichedDocument {
	return &core.EnrichedDocument{
		TestCase: core.TestCase{
			ID:              "TC-1",
			Module:          "Login",
			Title:           "Valid login",
			Description:     "User logs in",
			Steps:           steps,
			ExpectedResults: "Dashboard shown",
		},
		Embedding: []float32{0.1, 0.25, -0.5},
		CreatedAt: time.Date(2025, 5, 4, 3, 2, 1, 0, time.UTC),
		Metadata: core.EmbeddingMetadata{
			Model:  "text-embedding-3-small",
			Cost:   0.0001,
			Tokens: 42,
			Source: "embedding-api",
			RunID:  "run-1",
		},
	}
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	tests := []struct {
		name  string
		steps core.Steps
	}{
		{name: "text steps", steps: core.TextSteps("do the thing")},
		{name: "list steps", steps: core.ListSteps("first", "second")},
		{name: "empty steps", steps: core.Steps{}},
		{name: "empty list steps", steps: core.ListSteps()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument(tt.steps)

			data, err := MarshalDocument(doc)
			require.NoError(t, err)

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			assert.Equal(t, doc, decoded)
			assert.Equal(t, tt.steps.IsList(), decoded.Steps.IsList())
		})
	}
}

func TestMarshalDocument_FieldNames(t *testing.T) {
	data, err := MarshalDocument(sampleDocument(core.ListSteps("a")))
	require.NoError(t, err)

	raw := bson.Raw(data)
	for _, key := range []string{"id", "module", "title", "description", "steps", "expectedResults", "embedding", "createdAt", "embeddingMetadata"} {
		_, err := raw.LookupErr(key)
		assert.NoError(t, err, "missing field %s", key)
	}

	assert.Equal(t, 0.0001, raw.Lookup("embeddingMetadata", "cost").Double())
	assert.Equal(t, int64(42), raw.Lookup("embeddingMetadata", "tokens").Int64())
	assert.Equal(t, "embedding-api", raw.Lookup("embeddingMetadata", "source").StringValue())
	assert.Equal(t, "run-1", raw.Lookup("embeddingMetadata", "runId").StringValue())
	assert.Equal(t, "TC-1", raw.Lookup("id").StringValue())
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	_, err := UnmarshalDocument([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestTypedErrors(t *testing.T) {
	cause := assert.AnError
	writeErr := &WriteError{TestCaseID: "TC-1", Err: cause}
	assert.ErrorIs(t, writeErr, ErrWrite)
	assert.ErrorIs(t, writeErr, cause)
	assert.Contains(t, writeErr.Error(), "TC-1")

	connErr := &ConnectionError{Op: "connect", Err: cause}
	assert.ErrorIs(t, connErr, ErrConnection)
	assert.ErrorIs(t, connErr, cause)
	assert.NotErrorIs(t, connErr, ErrWrite)
}
