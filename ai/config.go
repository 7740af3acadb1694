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
	"errors"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	// ProviderRemote talks to the embedding service at {base}/embedding/text/{user}.
	ProviderRemote = "remote"
	// ProviderOpenAI talks to an OpenAI-compatible /v1/embeddings endpoint.
	ProviderOpenAI = "openai"
)

// Config holds configuration for embedding clients.
type Config struct {
	// Provider selects the client implementation.
	// Default: "remote"
	Provider string

	// BaseURL is the base URL of the embedding service.
	// Example: "https://vectors.internal.example.com"
	BaseURL string

	// User is the user identifier placed in the request path.
	User string

	// Token is an optional bearer token. Requests are sent unauthenticated when empty.
	Token string

	// Model is the embedding model identifier.
	// Example: "text-embedding-3-small"
	Model string

	// Timeout bounds a single request including reading the response.
	// Default: 30s
	Timeout time.Duration

	// PricePer1KTokens is used to estimate cost when the service does not report it.
	// Only the openai provider uses it.
	PricePer1KTokens float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the client implementation.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithBaseURL sets the embedding service base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithUser sets the user identifier used in the request path.
func WithUser(user string) ConfigOption {
	return func(c *Config) {
		c.User = user
	}
}

// WithToken sets the bearer token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithPricePer1KTokens sets the price used for cost estimation.
func WithPricePer1KTokens(price float64) ConfigOption {
	return func(c *Config) {
		c.PricePer1KTokens = price
	}
}

// DefaultConfig returns a Config with defaults for a locally running embedding service.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderRemote,
		BaseURL:  "http://localhost:8080",
		User:     "default",
		Model:    "text-embedding-3-small",
		Timeout:  30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithBaseURL("https://vectors.example.com"),
//	    WithUser("qa-team"),
//	    WithToken(os.Getenv("EMBEDDING_TOKEN")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the configuration in canonical form.
// Trailing slashes are removed from BaseURL and the provider name is lowercased.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderRemote
	}
	c.User = strings.Trim(strings.TrimSpace(c.User), "/")
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Provider != ProviderRemote && c.Provider != ProviderOpenAI {
		return errors.New("ai config: Provider must be one of remote, openai")
	}
	if c.BaseURL == "" {
		return errors.New("ai config: BaseURL is required")
	}
	if c.Provider == ProviderRemote && c.User == "" {
		return errors.New("ai config: User is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	if c.PricePer1KTokens < 0 {
		return errors.New("ai config: PricePer1KTokens cannot be negative")
	}
	return nil
}
