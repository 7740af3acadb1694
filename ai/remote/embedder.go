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


package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"

	"github.com/poiesic/tcembed/ai"
	"github.com/poiesic/tcembed/core"
)

// maxErrorBody caps how much of a failed response body is kept for diagnostics.
const maxErrorBody = 4096

// embedRequest is the JSON body sent to the embedding service.
type embedRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

// embedResponse mirrors the embedding service response.
// Numbers are decoded as float64 since the service may write 200.0 or 42.0.
type embedResponse struct {
	Status  *float64    `json:"status"`
	Message string      `json:"message"`
	Model   string      `json:"model"`
	Data    []datum     `json:"data"`
	Cost    looseNumber `json:"cost"`
	Usage   *struct {
		TotalTokens looseNumber `json:"total_tokens"`
	} `json:"usage"`
}

// looseNumber decodes an accounting value. Anything that is not a JSON
// number decodes as zero.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*n = 0
		return nil
	}
	*n = looseNumber(v)
	return nil
}

// tokenCount converts a decoded token value to a count; unusable values are 0.
func tokenCount(v float64) int64 {
	if v <= 0 || v >= math.MaxInt64 {
		return 0
	}
	return int64(math.Round(v))
}

type datum struct {
	Embedding []float32 `json:"embedding"`
}

// Embedder implements ai.Embedder against the embedding service HTTP API.
type Embedder struct {
	endpoint   string
	model      string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithHTTPClient replaces the HTTP client. The config timeout is not applied to it.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Embedder) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) {
		if logger != nil {
			e.logger = logger.With("component", "remote-embedder")
		}
	}
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config, opts ...Option) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Embedder{
		endpoint:   config.BaseURL + "/embedding/text/" + url.PathEscape(config.User),
		model:      config.Model,
		token:      config.Token,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     slog.Default().With("component", "remote-embedder"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEmbedder creates an embedder for the service described by config.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config, opts ...Option) (ai.Embedder, error) {
	return newEmbedder(config, opts...)
}

// Endpoint returns the URL requests are posted to.
func (e *Embedder) Endpoint() string {
	return e.endpoint
}

// Embed posts text to the embedding service and returns its vector and accounting.
func (e *Embedder) Embed(ctx context.Context, text string) (*core.EmbeddingResult, error) {
	if text == "" {
		return nil, ai.ErrEmptyText
	}

	body, err := json.Marshal(embedRequest{Input: text, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ai.TransportError{Endpoint: e.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	e.logger.Debug("requesting embedding", "endpoint", e.endpoint, "length", len(text))

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &ai.TransportError{Endpoint: e.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ai.HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ai.TransportError{Endpoint: e.endpoint, Err: fmt.Errorf("read response body: %w", err)}
	}

	var decoded embedResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidResponse, err)
	}

	status := resp.StatusCode
	if decoded.Status != nil {
		status = int(*decoded.Status)
		if *decoded.Status != http.StatusOK {
			return nil, &ai.RejectedError{Status: status, Message: decoded.Message}
		}
	}

	if len(decoded.Data) == 0 || len(decoded.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: response contained no embedding", ai.ErrInvalidResponse)
	}

	result := &core.EmbeddingResult{
		Vector: decoded.Data[0].Embedding,
		Model:  decoded.Model,
		Status: status,
	}
	if result.Model == "" {
		result.Model = e.model
	}
	if decoded.Cost > 0 {
		result.Cost = float64(decoded.Cost)
	}
	if decoded.Usage != nil {
		result.Tokens = tokenCount(float64(decoded.Usage.TotalTokens))
	}

	e.logger.Debug("received embedding",
		"model", result.Model,
		"dimensions", len(result.Vector),
		"cost", result.Cost,
		"tokens", result.Tokens)

	return result, nil
}
