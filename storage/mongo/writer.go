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


package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/tcembed/core"
	"github.com/poiesic/tcembed/storage"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// inserter is the slice of a collection the writer needs.
type inserter interface {
	insertOne(ctx context.Context, doc any) (any, error)
}

// driverCollection adapts a driver collection to inserter.
type driverCollection struct {
	coll *mongodriver.Collection
}

func (c driverCollection) insertOne(ctx context.Context, doc any) (any, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

// Writer inserts enriched documents into a MongoDB collection.
type Writer struct {
	client     *mongodriver.Client
	collection inserter
	logger     *slog.Logger
}

var _ storage.DocumentWriter = (*Writer)(nil)

// Open connects to MongoDB and verifies the connection with a ping.
// The returned writer holds the connection until Close is called.
func Open(ctx context.Context, cfg Config) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "mongo-writer")

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.connectTimeout()).
		SetServerSelectionTimeout(cfg.connectTimeout())

	client, err := mongodriver.Connect(opts)
	if err != nil {
		return nil, &storage.ConnectionError{Op: "connect", Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.connectTimeout())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, &storage.ConnectionError{Op: "ping", Err: err}
	}

	logger.Info("connected to mongodb", "database", cfg.Database, "collection", cfg.collection())

	return &Writer{
		client:     client,
		collection: driverCollection{coll: client.Database(cfg.Database).Collection(cfg.collection())},
		logger:     logger,
	}, nil
}

// Write inserts the document and returns the generated _id as a string.
func (w *Writer) Write(ctx context.Context, doc *core.EnrichedDocument) (string, error) {
	id, err := w.collection.insertOne(ctx, storage.NewDocumentRecord(doc))
	if err != nil {
		return "", &storage.WriteError{TestCaseID: doc.ID, Err: err}
	}
	return formatID(id), nil
}

// Close disconnects the client.
func (w *Writer) Close(ctx context.Context) error {
	if w.client == nil {
		return nil
	}
	if err := w.client.Disconnect(ctx); err != nil {
		return &storage.ConnectionError{Op: "close", Err: err}
	}
	w.logger.Debug("disconnected from mongodb")
	return nil
}

// formatID renders an inserted _id; ObjectIDs become their hex form.
func formatID(id any) string {
	switch v := id.(type) {
	case bson.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
