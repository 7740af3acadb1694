package mongo

import (
	"errors"
	"time"
)

var (
	// ErrMissingURI is returned when no connection string is configured.
	ErrMissingURI = errors.New("mongo: connection string is required")

	// ErrMissingDatabase is returned when no database name is configured.
	ErrMissingDatabase = errors.New("mongo: database name is required")
)

// Config holds the MongoDB connection settings.
type Config struct {
	URI            string        `env:"MONGODB_URI"`
	Database       string        `env:"MONGODB_DATABASE"`
	Collection     string        `env:"MONGODB_COLLECTION" envDefault:"test_cases"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Validate checks the settings required to open a connection.
func (c Config) Validate() error {
	if c.URI == "" {
		return ErrMissingURI
	}
	if c.Database == "" {
		return ErrMissingDatabase
	}
	return nil
}

func (c Config) collection() string {
	if c.Collection == "" {
		return "test_cases"
	}
	return c.Collection
}

func (c Config) connectTimeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return 10 * time.Second
	}
	return c.ConnectTimeout
}
