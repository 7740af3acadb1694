package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/poiesic/tcembed/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbedder(t *testing.T, baseURL string, opts ...ai.ConfigOption) *Embedder {
	t.Helper()
	cfgOpts := append([]ai.ConfigOption{
		ai.WithBaseURL(baseURL),
		ai.WithUser("qa-team"),
		ai.WithModel("text-embedding-3-small"),
		ai.WithTimeout(2 * time.Second),
	}, opts...)
	e, err := newEmbedder(ai.NewConfig(cfgOpts...))
	require.NoError(t, err)
	return e
}

func TestEmbed_Success(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody embedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": 200,
			"model": "text-embedding-3-small",
			"data": [{"embedding": [0.1, 0.2, 0.3]}],
			"cost": 0.0001,
			"usage": {"total_tokens": 42}
		}`))
	}))
	defer server.Close()

	e := newTestEmbedder(t, server.URL+"/", ai.WithToken("secret"))

	res, err := e.Embed(context.Background(), "ID: TC-1")
	require.NoError(t, err)

	assert.Equal(t, "/embedding/text/qa-team", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, embedRequest{Input: "ID: TC-1", Model: "text-embedding-3-small"}, gotBody)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, res.Vector)
	assert.Equal(t, "text-embedding-3-small", res.Model)
	assert.Equal(t, 0.0001, res.Cost)
	assert.Equal(t, int64(42), res.Tokens)
	assert.Equal(t, 200, res.Status)
}

func TestEmbed_NoTokenSendsNoAuthHeader(t *testing.T) {
	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"status":200,"model":"m","data":[{"embedding":[1]}]}`))
	}))
	defer server.Close()

	e := newTestEmbedder(t, server.URL)
	_, err := e.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestEmbed_MissingAccountingDefaultsToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"data":[{"embedding":[0.5,0.5]}]}`))
	}))
	defer server.Close()

	e := newTestEmbedder(t, server.URL)
	res, err := e.Embed(context.Background(), "text")
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Cost)
	assert.Equal(t, int64(0), res.Tokens)
	assert.Equal(t, "text-embedding-3-small", res.Model, "falls back to requested model")
}

func TestEmbed_NegativeAccountingClampsToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"model":"m","data":[{"embedding":[1]}],"cost":-1,"usage":{"total_tokens":-5}}`))
	}))
	defer server.Close()

	res, err := newTestEmbedder(t, server.URL).Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Cost)
	assert.Equal(t, int64(0), res.Tokens)
}

func TestEmbed_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	_, err := newTestEmbedder(t, server.URL).Embed(context.Background(), "text")
	require.ErrorIs(t, err, ai.ErrEmbeddingHTTP)

	var httpErr *ai.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "upstream exploded", httpErr.Body)
}

func TestEmbed_RejectedInBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":402,"message":"insufficient credits"}`))
	}))
	defer server.Close()

	_, err := newTestEmbedder(t, server.URL).Embed(context.Background(), "text")
	require.ErrorIs(t, err, ai.ErrEmbeddingRejected)

	var rejected *ai.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 402, rejected.Status)
	assert.Equal(t, "insufficient credits", rejected.Message)
}

func TestEmbed_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	e := newTestEmbedder(t, baseURL)
	_, err := e.Embed(context.Background(), "text")
	require.ErrorIs(t, err, ai.ErrEmbeddingTransport)

	var transport *ai.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, e.Endpoint(), transport.Endpoint)
}

func TestEmbed_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	e := newTestEmbedder(t, server.URL, ai.WithTimeout(50*time.Millisecond))
	_, err := e.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, ai.ErrEmbeddingTransport)
}

func TestEmbed_InvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>"},
		{name: "no data", body: `{"status":200,"model":"m","data":[]}`},
		{name: "empty embedding", body: `{"status":200,"model":"m","data":[{"embedding":[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestEmbedder(t, server.URL).Embed(context.Background(), "text")
			assert.ErrorIs(t, err, ai.ErrInvalidResponse)
		})
	}
}

func TestEmbed_EmptyText(t *testing.T) {
	e := newTestEmbedder(t, "http://127.0.0.1:1")
	_, err := e.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ai.ErrEmptyText)
}

func TestNewEmbedder_InvalidConfig(t *testing.T) {
	_, err := NewEmbedder(ai.NewConfig(ai.WithBaseURL("")))
	assert.Error(t, err)
}

func TestEndpoint_EscapesUser(t *testing.T) {
	e, err := newEmbedder(ai.NewConfig(ai.WithBaseURL("http://h"), ai.WithUser("a b")))
	require.NoError(t, err)
	assert.Equal(t, "http://h/embedding/text/a%20b", e.Endpoint())
}

func TestEmbed_FloatValuedNumbers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200.0,"model":"m","data":[{"embedding":[0.1,0.2]}],"cost":0.0001,"usage":{"total_tokens":42.0}}`))
	}))
	defer server.Close()

	res, err := newTestEmbedder(t, server.URL).Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, int64(42), res.Tokens)
	assert.Equal(t, 0.0001, res.Cost)
	assert.Equal(t, []float32{0.1, 0.2}, res.Vector)
}

func TestEmbed_UnusableAccountingDefaultsToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"model":"m","data":[{"embedding":[1]}],"cost":"n/a","usage":{"total_tokens":"lots"}}`))
	}))
	defer server.Close()

	res, err := newTestEmbedder(t, server.URL).Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Cost)
	assert.Equal(t, int64(0), res.Tokens)
}

func TestEmbed_FloatValuedRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":429.0,"message":"slow down"}`))
	}))
	defer server.Close()

	_, err := newTestEmbedder(t, server.URL).Embed(context.Background(), "text")
	var rejected *ai.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 429, rejected.Status)
}

func TestTokenCount(t *testing.T) {
	assert.Equal(t, int64(42), tokenCount(42))
	assert.Equal(t, int64(42), tokenCount(42.0))
	assert.Equal(t, int64(0), tokenCount(-3))
	assert.Equal(t, int64(0), tokenCount(1e30))
}
