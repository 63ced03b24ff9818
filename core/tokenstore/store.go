package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"scale-sync/core/storage"
)

// ErrNotFound is returned when a credential has never been stored.
var ErrNotFound = errors.New("tokenstore: not found")

// Store persists the credentials the two platform clients need across
// restarts: the Garmin OAuth session blob and the Withings refresh token.
// The Garmin session is opaque to the store; the garmin package owns its
// shape.
type Store interface {
	SaveGarminSession(ctx context.Context, data []byte) error
	LoadGarminSession(ctx context.Context) ([]byte, error)
	SaveWithingsRefreshToken(ctx context.Context, token string) error
	LoadWithingsRefreshToken(ctx context.Context) (string, error)
}

// Backend identifiers for Config.Backend.
const (
	BackendFile   = "file"
	BackendObject = "object"
)

// Config holds configuration for credential persistence.
type Config struct {
	// Backend selects the storage backend: "file" or "object".
	Backend string `mapstructure:"backend" default:"file"`
	// Dir is the directory for the file backend.
	Dir string `mapstructure:"dir" default:".tokens"`
	// Prefix is the object key prefix for the object backend.
	Prefix string `mapstructure:"prefix" default:"tokens/"`
}

// New selects a store implementation based on the configuration.
// The object backend needs a storage client and the bucket name; the file
// backend ignores both.
func New(cfg Config, client storage.Client, bucket string) (Store, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.Dir), nil
	case BackendObject:
		if client == nil {
			return nil, fmt.Errorf("tokenstore: object backend requires a storage client")
		}
		return NewObjectStore(client, bucket, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("tokenstore: unknown backend %q", cfg.Backend)
	}
}
