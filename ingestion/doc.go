// Package ingestion drives a batch of test cases through embedding and storage.
//
// A Driver loads every test case from a source.Source, then handles them one
// at a time in input order:
//   - builds the embedding prompt
//   - requests an embedding from an ai.Embedder
//   - merges the result into a core.EnrichedDocument
//   - writes the document with a storage.DocumentWriter
//
// A failure on one record is logged and recorded in that record's
// RecordResult; the run continues with the next record. Run returns a Report
// holding every RecordResult and the RunTotals derived from them.
//
// Records are processed strictly sequentially with a short pause between
// them, so the embedding service sees at most one request at a time.
package ingestion
