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


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/tcembed/ai"
	"github.com/poiesic/tcembed/ai/openai"
	"github.com/poiesic/tcembed/ai/remote"
	"github.com/poiesic/tcembed/config"
	"github.com/poiesic/tcembed/ingestion"
	"github.com/poiesic/tcembed/source"
	"github.com/poiesic/tcembed/storage"
	"github.com/poiesic/tcembed/storage/badger"
	"github.com/poiesic/tcembed/storage/mongo"
	"github.com/urfave/cli/v2"
)

// closeTimeout bounds how long releasing the store may take.
const closeTimeout = 10 * time.Second

// errRecordsFailed is returned by ingest --strict when any record was not stored.
var errRecordsFailed = errors.New("one or more records failed")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "tcembed",
		Usage: "Embed test cases and store them in a document store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file if it exists",
				Value: ".env",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Embed every test case in a file and store the enriched documents",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to a JSON or YAML file with test cases",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "store",
						Usage: "Document store driver (mongo, badger); overrides STORE_DRIVER",
					},
					&cli.StringFlag{
						Name:  "badger-path",
						Usage: "Badger database directory; overrides BADGER_PATH",
					},
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Embedding provider (remote, openai); overrides EMBEDDING_PROVIDER",
					},
					&cli.StringFlag{
						Name:  "embedding-base",
						Usage: "Embedding API base URL; overrides EMBEDDING_API_BASE",
					},
					&cli.StringFlag{
						Name:  "embedding-user",
						Usage: "Embedding API user; overrides EMBEDDING_USER",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model; overrides EMBEDDING_MODEL",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Embedding request timeout; overrides EMBEDDING_TIMEOUT",
					},
					&cli.DurationFlag{
						Name:  "pause",
						Usage: "Pause between records; overrides INGEST_PAUSE",
					},
					&cli.StringFlag{
						Name:  "source-tag",
						Usage: "Source tag written to document metadata; overrides SOURCE_TAG",
					},
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Exit non-zero if any record was not stored",
					},
				},
			},
			{
				Name:   "inspect",
				Usage:  "List documents in a local badger store",
				Action: inspectCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "badger-path",
						Usage: "Badger database directory; overrides BADGER_PATH",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Show at most this many documents (0 for all)",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "count",
						Usage: "Only print the number of documents",
					},
				},
			},
		},
	}
}

func ingestCommand(c *cli.Context) (err error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	aiConfig := cfg.AIConfig()
	embedder, err := newEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	writer, err := openWriter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		err = closeStore(closeCtx, writer, err)
	}()

	driver, err := ingestion.NewDriver(
		source.NewFileSource(c.String("input")),
		embedder,
		writer,
		ingestion.WithLogger(slog.Default()),
		ingestion.WithPause(cfg.Pause),
		ingestion.WithSourceTag(cfg.SourceTag),
		ingestion.WithReporter(ingestion.NewConsoleReporter(c.App.Writer)),
	)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	slog.Info("starting ingestion",
		"input", c.String("input"),
		"store", cfg.StoreDriver,
		"provider", aiConfig.Provider,
		"model", aiConfig.Model,
		"run", driver.RunID())

	report, err := driver.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if c.Bool("strict") && report.Totals.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", errRecordsFailed, report.Totals.Failed, report.Totals.Records)
	}
	return nil
}

func inspectCommand(c *cli.Context) (err error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.BadgerPath == "" {
		return config.ErrMissingBadgerPath
	}
	if _, err := os.Stat(cfg.BadgerPath); err != nil {
		return fmt.Errorf("badger store %s: %w", cfg.BadgerPath, err)
	}

	store, err := badger.Open(cfg.BadgerPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		err = closeStore(c.Context, store, err)
	}()

	if c.Bool("count") {
		count, err := store.Count(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, count)
		return nil
	}

	docs, err := store.List(c.Context)
	if err != nil {
		return err
	}

	limit := c.Int("limit")
	for i, stored := range docs {
		if limit > 0 && i >= limit {
			fmt.Fprintf(c.App.Writer, "... %d more\n", len(docs)-limit)
			break
		}
		doc := stored.Document
		fmt.Fprintf(c.App.Writer, "%s  %-12s %-24s dims=%d tokens=%d cost=%.6f run=%s created=%s\n",
			stored.ID, doc.ID, doc.Metadata.Model, len(doc.Embedding),
			doc.Metadata.Tokens, doc.Metadata.Cost, doc.Metadata.RunID,
			doc.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

// storeCloser is the part of a document store released at the end of a command.
type storeCloser interface {
	Close(ctx context.Context) error
}

// closeStore closes the store and joins any close error into err.
func closeStore(ctx context.Context, store storeCloser, err error) error {
	if closeErr := store.Close(ctx); closeErr != nil {
		slog.Error("error closing store", "err", closeErr)
		return errors.Join(err, closeErr)
	}
	return err
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	applyOverrides(c, cfg)
	return cfg, nil
}

// applyOverrides copies explicitly set flags over configuration values.
func applyOverrides(c *cli.Context, cfg *config.Config) {
	if c.IsSet("store") {
		cfg.StoreDriver = c.String("store")
	}
	if c.IsSet("badger-path") {
		cfg.BadgerPath = c.String("badger-path")
	}
	if c.IsSet("provider") {
		cfg.Embedding.Provider = c.String("provider")
	}
	if c.IsSet("embedding-base") {
		cfg.Embedding.BaseURL = c.String("embedding-base")
	}
	if c.IsSet("embedding-user") {
		cfg.Embedding.User = c.String("embedding-user")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	if c.IsSet("timeout") {
		cfg.Embedding.Timeout = c.Duration("timeout")
	}
	if c.IsSet("pause") {
		cfg.Pause = c.Duration("pause")
	}
	if c.IsSet("source-tag") {
		cfg.SourceTag = c.String("source-tag")
	}
}

// newEmbedder builds the embedding client for the configured provider.
func newEmbedder(cfg *ai.Config) (ai.Embedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ai.ProviderOpenAI:
		return openai.NewEmbedder(cfg)
	default:
		return remote.NewEmbedder(cfg, remote.WithLogger(slog.Default()))
	}
}

// openWriter opens the configured document store.
func openWriter(ctx context.Context, cfg *config.Config) (storage.DocumentWriter, error) {
	switch cfg.StoreDriver {
	case config.StoreBadger:
		return badger.Open(cfg.BadgerPath)
	case config.StoreMongo:
		return mongo.Open(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreDriver, cfg.StoreDriver)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
