package ingestion

import (
	"time"

	"github.com/poiesic/tcembed/core"
)

// Outcome is the final state of one record.
type Outcome int

const (
	// OutcomeStored means the document was embedded and written.
	OutcomeStored Outcome = iota
	// OutcomeEmbedFailed means no embedding was obtained; nothing was written.
	OutcomeEmbedFailed
	// OutcomeWriteFailed means the embedding succeeded but the write did not.
	OutcomeWriteFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeEmbedFailed:
		return "embed_failed"
	case OutcomeWriteFailed:
		return "write_failed"
	default:
		return "unknown"
	}
}

// EmbeddingSummary describes an embedding without carrying the vector.
type EmbeddingSummary struct {
	Model      string
	Cost       float64
	Tokens     int64
	Dimensions int
	Status     int
}

// RecordResult is the outcome of processing one test case.
type RecordResult struct {
	TestCaseID string
	Outcome    Outcome
	StoredID   string // set when Outcome is OutcomeStored
	Embedding  *EmbeddingSummary
	Err        error
}

// Stored reports whether the record's document was written.
func (r RecordResult) Stored() bool {
	return r.Outcome == OutcomeStored
}

// Report is the result of one run.
type Report struct {
	RunID    string
	Results  []RecordResult
	Totals   core.RunTotals
	Started  time.Time
	Finished time.Time
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Summarize derives run totals from per-record results.
// Cost and tokens are counted only for stored records.
func Summarize(results []RecordResult) core.RunTotals {
	var totals core.RunTotals
	for _, result := range results {
		totals.Records++
		if !result.Stored() {
			totals.Failed++
			continue
		}
		totals.Stored++
		if result.Embedding != nil {
			totals.Cost += result.Embedding.Cost
			totals.Tokens += result.Embedding.Tokens
		}
	}
	return totals
}
