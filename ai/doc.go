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


// Package ai provides the embedding client abstraction used by the ingestion driver.
//
// The Embedder interface turns a prompt into a core.EmbeddingResult. Failures
// are typed so callers can tell a request that never got a response
// (TransportError) from a non-2xx answer (HTTPError) and from a 2xx answer
// whose body reports a failure (RejectedError):
//
//	res, err := embedder.Embed(ctx, prompt)
//	switch {
//	case errors.Is(err, ai.ErrEmbeddingTransport):
//	    // no response, see TransportError.Endpoint
//	case errors.Is(err, ai.ErrEmbeddingHTTP):
//	    // see HTTPError.StatusCode and HTTPError.Body
//	case errors.Is(err, ai.ErrEmbeddingRejected):
//	    // see RejectedError.Message
//	}
//
// # Implementation Packages
//
//   - ai/remote: HTTP client for the embedding service (POST {base}/embedding/text/{user})
//   - ai/openai: OpenAI-compatible embeddings through langchaingo
//   - ai/mock: test double with deterministic vectors
//
// Public constructors return the ai.Embedder interface. The mock constructor
// returns its concrete type so tests can inject behaviour and count calls.
package ai
