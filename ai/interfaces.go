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


package ai

import (
	"context"

	"github.com/poiesic/tcembed/core"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed requests an embedding for a single prompt.
	// On success the result carries the vector, the model that produced it,
	// and best-effort cost and token accounting (zero when the service
	// does not report them).
	// Failures match one of ErrEmbeddingTransport, ErrEmbeddingHTTP,
	// ErrEmbeddingRejected or ErrInvalidResponse.
	Embed(ctx context.Context, text string) (*core.EmbeddingResult, error)
}
