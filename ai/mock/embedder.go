package mock

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/poiesic/tcembed/ai"
	"github.com/poiesic/tcembed/core"
)

// DefaultDimensions is the vector length produced by the default behaviour.
const DefaultDimensions = 1536

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedFunc is called by Embed if set.
	// If nil, uses default deterministic behavior.
	EmbedFunc func(ctx context.Context, text string) (*core.EmbeddingResult, error)

	// Model, Cost and Tokens are reported by the default behavior.
	Model  string
	Cost   float64
	Tokens int64

	// Dimensions is the vector length of the default behavior.
	Dimensions int

	calls []string
}

var _ ai.Embedder = (*MockEmbedder)(nil)

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Model:      "mock-embedding",
		Dimensions: DefaultDimensions,
	}
}

// Embed generates a deterministic embedding based on text hash.
func (m *MockEmbedder) Embed(ctx context.Context, text string) (*core.EmbeddingResult, error) {
	m.calls = append(m.calls, text)

	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}

	dims := m.Dimensions
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &core.EmbeddingResult{
		Vector: generateDeterministicVector(text, dims),
		Model:  m.Model,
		Cost:   m.Cost,
		Tokens: m.Tokens,
		Status: 200,
	}, nil
}

// CallCount returns the number of times Embed was called.
func (m *MockEmbedder) CallCount() int {
	return len(m.calls)
}

// Calls returns the texts passed to Embed, in call order.
func (m *MockEmbedder) Calls() []string {
	return append([]string(nil), m.calls...)
}

// Reset clears recorded calls and injected behavior.
func (m *MockEmbedder) Reset() {
	m.calls = nil
	m.EmbedFunc = nil
}

// generateDeterministicVector creates a deterministic unit vector from text.
// It uses FNV hash to ensure the same text always produces the same vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares > 0 {
		norm := float32(1 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
