package storage

import (
	"fmt"
	"time"

	"github.com/poiesic/tcembed/core"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// DocumentRecord is the persisted shape of an EnrichedDocument.
// Field names are shared by every store.
type DocumentRecord struct {
	ID                string         `bson:"id"`
	Module            string         `bson:"module"`
	Title             string         `bson:"title"`
	Description       string         `bson:"description"`
	Steps             any            `bson:"steps"`
	ExpectedResults   string         `bson:"expectedResults"`
	Embedding         []float32      `bson:"embedding"`
	CreatedAt         time.Time      `bson:"createdAt"`
	EmbeddingMetadata MetadataRecord `bson:"embeddingMetadata"`
}

// MetadataRecord is the persisted shape of core.EmbeddingMetadata.
type MetadataRecord struct {
	Model  string  `bson:"model"`
	Cost   float64 `bson:"cost"`
	Tokens int64   `bson:"tokens"`
	Source string  `bson:"source"`
	RunID  string  `bson:"runId,omitempty"`
}

// NewDocumentRecord converts a document to its persisted shape.
func NewDocumentRecord(doc *core.EnrichedDocument) DocumentRecord {
	return DocumentRecord{
		ID:              doc.ID,
		Module:          doc.Module,
		Title:           doc.Title,
		Description:     doc.Description,
		Steps:           doc.Steps.Value(),
		ExpectedResults: doc.ExpectedResults,
		Embedding:       doc.Embedding,
		CreatedAt:       doc.CreatedAt.UTC(),
		EmbeddingMetadata: MetadataRecord{
			Model:  doc.Metadata.Model,
			Cost:   doc.Metadata.Cost,
			Tokens: doc.Metadata.Tokens,
			Source: doc.Metadata.Source,
			RunID:  doc.Metadata.RunID,
		},
	}
}

// Document converts a persisted record back to an EnrichedDocument.
func (r DocumentRecord) Document() (*core.EnrichedDocument, error) {
	stepsValue := r.Steps
	if arr, ok := stepsValue.(bson.A); ok {
		stepsValue = []any(arr)
	}
	steps, err := core.StepsFromValue(stepsValue)
	if err != nil {
		return nil, err
	}

	return &core.EnrichedDocument{
		TestCase: core.TestCase{
			ID:              r.ID,
			Module:          r.Module,
			Title:           r.Title,
			Description:     r.Description,
			Steps:           steps,
			ExpectedResults: r.ExpectedResults,
		},
		Embedding: r.Embedding,
		CreatedAt: r.CreatedAt.UTC(),
		Metadata: core.EmbeddingMetadata{
			Model:  r.EmbeddingMetadata.Model,
			Cost:   r.EmbeddingMetadata.Cost,
			Tokens: r.EmbeddingMetadata.Tokens,
			Source: r.EmbeddingMetadata.Source,
			RunID:  r.EmbeddingMetadata.RunID,
		},
	}, nil
}

// MarshalDocument serializes a document to BSON.
func MarshalDocument(doc *core.EnrichedDocument) ([]byte, error) {
	data, err := bson.Marshal(NewDocumentRecord(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalDocument deserializes a document from BSON.
func UnmarshalDocument(data []byte) (*core.EnrichedDocument, error) {
	var record DocumentRecord
	if err := bson.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	doc, err := record.Document()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return doc, nil
}
