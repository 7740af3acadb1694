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


// Package mock provides a test double for the ai.Embedder interface.
//
// # Usage
//
//	mockEmbedder := mock.NewMockEmbedder()
//	mockEmbedder.Cost = 0.0001
//	mockEmbedder.Tokens = 42
//
//	// Or inject failures
//	mockEmbedder.EmbedFunc = func(ctx context.Context, text string) (*core.EmbeddingResult, error) {
//	    return nil, &ai.HTTPError{StatusCode: 500, Body: "boom"}
//	}
//
//	// Check calls
//	count := mockEmbedder.CallCount()
//
// # Default Behavior
//
// MockEmbedder returns deterministic unit vectors derived from an FNV hash of
// the text, DefaultDimensions long unless Dimensions is set.
package mock
