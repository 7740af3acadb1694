package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/tcembed/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.Embed(ctx, "hello")
	require.NoError(t, err)
	b, err := m.Embed(ctx, "hello")
	require.NoError(t, err)
	c, err := m.Embed(ctx, "other")
	require.NoError(t, err)

	assert.Len(t, a.Vector, DefaultDimensions)
	assert.Equal(t, a.Vector, b.Vector)
	assert.NotEqual(t, a.Vector, c.Vector)
	assert.Equal(t, 3, m.CallCount())
	assert.Equal(t, []string{"hello", "hello", "other"}, m.Calls())
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	m := NewMockEmbedder()
	m.Dimensions = 16
	res, err := m.Embed(context.Background(), "norm")
	require.NoError(t, err)

	var sum float64
	for _, v := range res.Vector {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestMockEmbedder_Accounting(t *testing.T) {
	m := NewMockEmbedder()
	m.Cost = 0.0001
	m.Tokens = 42

	res, err := m.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 0.0001, res.Cost)
	assert.Equal(t, int64(42), res.Tokens)
	assert.Equal(t, "mock-embedding", res.Model)
}

func TestMockEmbedder_EmbedFuncAndReset(t *testing.T) {
	m := NewMockEmbedder()
	m.EmbedFunc = func(ctx context.Context, text string) (*core.EmbeddingResult, error) {
		return nil, errors.New("injected")
	}

	_, err := m.Embed(context.Background(), "x")
	assert.EqualError(t, err, "injected")

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	_, err = m.Embed(context.Background(), "x")
	assert.NoError(t, err)
}
