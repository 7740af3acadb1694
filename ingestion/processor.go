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


package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/tcembed/ai"
	"github.com/poiesic/tcembed/core"
	"github.com/poiesic/tcembed/storage"
)

// recordProcessor embeds and stores a single test case.
type recordProcessor struct {
	embedder  ai.Embedder
	writer    storage.DocumentWriter
	sourceTag string
	runID     string
	now       func() time.Time
	logger    *slog.Logger
}

// process runs one test case through embed, build and write.
// It never returns an error; failures are captured in the result.
func (rp *recordProcessor) process(ctx context.Context, tc core.TestCase) RecordResult {
	result := RecordResult{TestCaseID: tc.ID}
	logger := rp.logger.With("testCase", tc.ID)

	prompt := core.BuildPrompt(tc)
	logger.Debug("requesting embedding", "promptLength", len(prompt))

	embedding, err := rp.embedder.Embed(ctx, prompt)
	if err != nil {
		rp.logEmbedFailure(logger, err)
		result.Outcome = OutcomeEmbedFailed
		result.Err = err
		return result
	}

	result.Embedding = &EmbeddingSummary{
		Model:      embedding.Model,
		Cost:       embedding.Cost,
		Tokens:     embedding.Tokens,
		Dimensions: len(embedding.Vector),
		Status:     embedding.Status,
	}

	doc := core.NewEnrichedDocument(tc, embedding, rp.sourceTag, rp.runID, rp.now())

	storedID, err := rp.writer.Write(ctx, doc)
	if err != nil {
		logger.Error("error writing document", "err", err)
		result.Outcome = OutcomeWriteFailed
		result.Err = err
		return result
	}

	logger.Info("stored document",
		"id", storedID,
		"model", embedding.Model,
		"cost", embedding.Cost,
		"tokens", embedding.Tokens,
		"dimensions", len(embedding.Vector))

	result.Outcome = OutcomeStored
	result.StoredID = storedID
	return result
}

// logEmbedFailure logs an embedding failure with the details of its kind.
func (rp *recordProcessor) logEmbedFailure(logger *slog.Logger, err error) {
	attrs := []any{"kind", ai.Classify(err), "err", err}

	var httpErr *ai.HTTPError
	var rejected *ai.RejectedError
	var transport *ai.TransportError
	switch {
	case errors.As(err, &httpErr):
		attrs = append(attrs, "status", httpErr.StatusCode, "body", httpErr.Body)
	case errors.As(err, &rejected):
		attrs = append(attrs, "status", rejected.Status, "message", rejected.Message)
	case errors.As(err, &transport):
		attrs = append(attrs, "endpoint", transport.Endpoint)
	}

	logger.Error("error generating embedding", attrs...)
}
