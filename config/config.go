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


// Package config loads the ingestion job's settings from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file. Variables already set in the environment take precedence over
// the file. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/poiesic/tcembed/ai"
	"github.com/poiesic/tcembed/storage/mongo"
)

// Store drivers accepted by Config.StoreDriver.
const (
	StoreMongo  = "mongo"
	StoreBadger = "badger"
)

var (
	// ErrUnknownStoreDriver is returned when STORE_DRIVER names no known store.
	ErrUnknownStoreDriver = errors.New("config: unknown store driver")

	// ErrMissingBadgerPath is returned when the badger store has no directory.
	ErrMissingBadgerPath = errors.New("config: badger path is required")

	// ErrInvalidPause is returned for a negative inter-record pause.
	ErrInvalidPause = errors.New("config: pause cannot be negative")

	// ErrMissingSourceTag is returned when the source tag is blank.
	ErrMissingSourceTag = errors.New("config: source tag is required")
)

// Config holds every setting of an ingestion run.
type Config struct {
	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`
	BadgerPath  string `env:"BADGER_PATH" envDefault:"./testcase_db"`
	Mongo       mongo.Config

	Embedding Embedding

	Pause     time.Duration `env:"INGEST_PAUSE" envDefault:"100ms"`
	SourceTag string        `env:"SOURCE_TAG" envDefault:"embedding-api"`
}

// Embedding holds the embedding client settings.
type Embedding struct {
	Provider   string        `env:"EMBEDDING_PROVIDER" envDefault:"remote"`
	BaseURL    string        `env:"EMBEDDING_API_BASE" envDefault:"http://localhost:8080"`
	User       string        `env:"EMBEDDING_USER" envDefault:"default"`
	Token      string        `env:"EMBEDDING_TOKEN"`
	Model      string        `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	Timeout    time.Duration `env:"EMBEDDING_TIMEOUT" envDefault:"30s"`
	PricePer1K float64       `env:"EMBEDDING_PRICE_PER_1K" envDefault:"0"`
}

// Load reads the configuration from the environment.
// If envFile is set, its variables are added to the environment first;
// a missing file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for the selected store and embedder.
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))

	switch c.StoreDriver {
	case StoreMongo:
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	case StoreBadger:
		if c.BadgerPath == "" {
			return ErrMissingBadgerPath
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.StoreDriver)
	}

	if c.Pause < 0 {
		return ErrInvalidPause
	}
	if strings.TrimSpace(c.SourceTag) == "" {
		return ErrMissingSourceTag
	}

	return c.AIConfig().Validate()
}

// AIConfig converts the embedding settings into an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithProvider(c.Embedding.Provider),
		ai.WithBaseURL(c.Embedding.BaseURL),
		ai.WithUser(c.Embedding.User),
		ai.WithToken(c.Embedding.Token),
		ai.WithModel(c.Embedding.Model),
		ai.WithTimeout(c.Embedding.Timeout),
		ai.WithPricePer1KTokens(c.Embedding.PricePer1K),
	)
}
