package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/poiesic/tcembed/ai"
	"github.com/poiesic/tcembed/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// These APIs report no cost, so cost is estimated from a token count and the
// configured price per thousand tokens.
type Embedder struct {
	embedder embeddings.Embedder
	endpoint string
	model    string
	price    float64
	logger   *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Local OpenAI-compatible services accept any token but the client requires one
	token := config.Token
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.Model),
		openai.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		endpoint: config.BaseURL + "/embeddings",
		model:    config.Model,
		price:    config.PricePer1KTokens,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// Embed generates a vector embedding for a single text string.
func (e *Embedder) Embed(ctx context.Context, text string) (*core.EmbeddingResult, error) {
	if text == "" {
		return nil, ai.ErrEmptyText
	}

	e.logger.Debug("generating embedding for single text", "length", len(text))

	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, classify(e.endpoint, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: embedder returned empty result", ai.ErrInvalidResponse)
	}

	tokens := int64(llms.CountTokens(e.model, text))
	return &core.EmbeddingResult{
		Vector: vector,
		Model:  e.model,
		Cost:   float64(tokens) / 1000 * e.price,
		Tokens: tokens,
		Status: http.StatusOK,
	}, nil
}

// classify maps langchaingo errors onto the ai error taxonomy. Network
// failures surface as *url.Error; anything else came back from the service.
func classify(endpoint string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &ai.TransportError{Endpoint: endpoint, Err: err}
	}
	return &ai.RejectedError{Message: err.Error()}
}
